package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/roster/internal/app/controllers"
	"github.com/yigit/roster/internal/app/forms"
	appMigrations "github.com/yigit/roster/internal/app/migrations"
	appRepos "github.com/yigit/roster/internal/app/repositories"
	appRoutes "github.com/yigit/roster/internal/app/routes"
	appServices "github.com/yigit/roster/internal/app/services"
	"github.com/yigit/roster/internal/config"
	"github.com/yigit/roster/internal/db"
	appMiddleware "github.com/yigit/roster/internal/middleware"
	"github.com/yigit/roster/internal/pkg/logger"
	"github.com/yigit/roster/internal/pkg/validation"
	"github.com/yigit/roster/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Postgres          *db.PostgresDB
	Mongo             *db.MongoDB
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	StudentController *appControllers.StudentController
	GroupController   *appControllers.GroupController
	HealthController  *appControllers.HealthController
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "roster",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies the embedded schema.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateUp(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupMongo connects to MongoDB and resolves the group collection.
func SetupMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.MongoDB, error) {
	lgr.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("Establishing mongo connection...")
	mongoDB, err := db.NewMongoDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to mongo")
		return nil, err
	}
	lgr.Info().Msg("Mongo connection successfully established.")
	return mongoDB, nil
}

// PrepareGroups creates the id index and seeds default groups.
func PrepareGroups(ctx context.Context, cfg *config.Config, groups *appRepos.GroupRepository, lgr zerolog.Logger) {
	if err := groups.EnsureIndexes(ctx); err != nil {
		// Existing duplicate ids keep the index from building; creation still works, unguarded.
		lgr.Warn().Err(err).Msg("Group id index unavailable, concurrent creations may collide")
	}

	if !cfg.Mongo.SeedDefaults {
		return
	}
	if err := seed.CreateDefaultGroups(ctx, groups, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default groups, proceeding anyway...")
	}
}

// BuildDependencies initializes repositories, services and controllers over live stores.
func BuildDependencies(cfg *config.Config, pg *db.PostgresDB, mongoDB *db.MongoDB, lgr zerolog.Logger) *Dependencies {
	repos := appRepos.NewRepositories(pg.Pool, mongoDB.Groups, appRepos.Options{
		AcquireTimeout:  cfg.AcquireTimeout(),
		IDRetryAttempts: cfg.Groups.IDRetryAttempts,
	})
	services := appServices.NewServices(repos.StudentRepository, repos.GroupRepository)

	deps := NewDependencies(cfg, services, map[string]appControllers.Pinger{
		"postgres": pg,
		"mongo":    mongoDB,
	}, lgr)
	deps.Postgres = pg
	deps.Mongo = mongoDB
	deps.Repos = repos
	return deps
}

// NewDependencies builds the controllers over already constructed services.
func NewDependencies(cfg *config.Config, services *appServices.Services, stores map[string]appControllers.Pinger, lgr zerolog.Logger) *Dependencies {
	return &Dependencies{
		Services:          services,
		StudentController: appControllers.NewStudentController(services.StudentService, forms.Options{MaxPhotoBytes: cfg.Upload.MaxPhotoBytes}),
		GroupController:   appControllers.NewGroupController(services.GroupService),
		HealthController:  appControllers.NewHealthController(stores),
		Logger:            lgr,
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterBindingRules()

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.AccessLog(),
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			appMiddleware.HandleAPIError(c, fmt.Errorf("panic: %v", recovered))
		}),
		appMiddleware.CORS(appMiddleware.CORSConfig{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		appMiddleware.BodyLimit(cfg.Server.MaxBodyBytes),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.StudentController, deps.GroupController, deps.HealthController)
	appRoutes.SetupStatic(router, cfg.Server.StaticDir)

	return router
}
