package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/roster/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

const (
	defaultConnMaxLifetime     = time.Hour
	defaultAcquireTimeout      = 50 * time.Second
	defaultMongoConnectTimeout = 10 * time.Second
)

// Config structure represents the application configuration.
// Environment variable names follow the docker-compose deployment.
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"BACKEND_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		StaticDir    string `yaml:"static_dir" env:"STATIC_DIR"`
		MaxBodyBytes int64  `yaml:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES"`
	} `yaml:"server"`

	CORS struct {
		AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
		AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
		MaxAge           int      `yaml:"max_age" env:"CORS_MAX_AGE"`
	} `yaml:"cors"`

	Database struct {
		Host            string `yaml:"host" env:"POSTGRES_HOST"`
		Port            string `yaml:"port" env:"POSTGRES_PORT"`
		User            string `yaml:"user" env:"POSTGRES_USER"`
		Password        string `yaml:"password" env:"POSTGRES_PASSWORD"`
		DBName          string `yaml:"dbname" env:"POSTGRES_DB"`
		SSLMode         string `yaml:"sslmode" env:"POSTGRES_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		AcquireTimeout  string `yaml:"acquire_timeout" env:"DB_ACQUIRE_TIMEOUT"`
	} `yaml:"database"`

	Mongo struct {
		URI            string `yaml:"uri" env:"MONGO_URI"`
		Host           string `yaml:"host" env:"MONGO_HOST"`
		Port           string `yaml:"port" env:"MONGO_PORT"`
		Database       string `yaml:"database" env:"MONGO_INITDB_DATABASE"`
		Collection     string `yaml:"collection" env:"MONGO_COLLECTION"`
		ConnectTimeout string `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT"`
		SeedDefaults   bool   `yaml:"seed_defaults" env:"MONGO_SEED_DEFAULTS"`
	} `yaml:"mongo"`

	Groups struct {
		IDRetryAttempts int `yaml:"id_retry_attempts" env:"GROUP_ID_RETRY_ATTEMPTS"`
	} `yaml:"groups"`

	Upload struct {
		MaxPhotoBytes int64 `yaml:"max_photo_bytes" env:"UPLOAD_MAX_PHOTO_BYTES"`
	} `yaml:"upload"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is the normal case in containers.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StaticDir = "static"
	config.Server.MaxBodyBytes = 12 << 20

	config.CORS.AllowedOrigins = []string{"*"}
	config.CORS.AllowCredentials = true
	config.CORS.MaxAge = 3600

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "students_db"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 5
	config.Database.MinConns = 0
	config.Database.ConnMaxLifetime = defaultConnMaxLifetime.String()
	config.Database.AcquireTimeout = defaultAcquireTimeout.String()

	config.Mongo.Host = "localhost"
	config.Mongo.Port = "27017"
	config.Mongo.Database = "schedules_db"
	config.Mongo.Collection = "schedule_collection"
	config.Mongo.ConnectTimeout = defaultMongoConnectTimeout.String()
	config.Mongo.SeedDefaults = true

	config.Groups.IDRetryAttempts = 5

	config.Upload.MaxPhotoBytes = 10 << 20

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive")
	}

	if config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxOpenConns {
		return fmt.Errorf("database min_conns must be between 0 and max_open_conns")
	}

	for name, value := range map[string]string{
		"database conn_max_lifetime": config.Database.ConnMaxLifetime,
		"database acquire_timeout":   config.Database.AcquireTimeout,
		"mongo connect_timeout":      config.Mongo.ConnectTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Mongo.URI == "" && config.Mongo.Host == "" {
		return fmt.Errorf("mongo uri or host is required")
	}

	if config.Mongo.Database == "" || config.Mongo.Collection == "" {
		return fmt.Errorf("mongo database and collection are required")
	}

	if config.Groups.IDRetryAttempts < 1 {
		return fmt.Errorf("groups id_retry_attempts must be at least 1")
	}

	if config.Upload.MaxPhotoBytes <= 0 {
		return fmt.Errorf("upload max_photo_bytes must be positive")
	}

	if config.Server.MaxBodyBytes < config.Upload.MaxPhotoBytes {
		return fmt.Errorf("server max_body_bytes must not be smaller than upload max_photo_bytes")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// GetMongoURI returns the explicit URI when configured, otherwise one built from host and port.
func (c *Config) GetMongoURI() string {
	if c.Mongo.URI != "" {
		return c.Mongo.URI
	}
	return "mongodb://" + net.JoinHostPort(c.Mongo.Host, c.Mongo.Port)
}

// AcquireTimeout is the bounded wait for a pooled relational connection.
func (c *Config) AcquireTimeout() time.Duration {
	return helpers.DurationOr("database.acquire_timeout", c.Database.AcquireTimeout, defaultAcquireTimeout)
}

// ConnMaxLifetime returns the parsed connection lifetime.
func (c *Config) ConnMaxLifetime() time.Duration {
	return helpers.DurationOr("database.conn_max_lifetime", c.Database.ConnMaxLifetime, defaultConnMaxLifetime)
}

// MongoConnectTimeout returns the parsed Mongo connect timeout.
func (c *Config) MongoConnectTimeout() time.Duration {
	return helpers.DurationOr("mongo.connect_timeout", c.Mongo.ConnectTimeout, defaultMongoConnectTimeout)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
