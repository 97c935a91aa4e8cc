package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/controllers"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/pkg/logger"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	groupController *controllers.GroupController,
	healthController *controllers.HealthController,
) {
	router.GET("/health", healthController.Health)
	router.GET("/ready", healthController.Ready)

	api := router.Group("/api")

	students := api.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/image/:id", studentController.GetStudentImage)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	groups := api.Group("/groups")
	{
		groups.GET("", groupController.GetAllGroups)
		groups.POST("", groupController.CreateGroup)
		groups.GET("/:id", groupController.GetGroupByID)
		groups.PUT("/:id", groupController.UpdateGroup)
		groups.DELETE("/:id", groupController.DeleteGroup)
	}
}

// SetupStatic serves the companion UI for every path no route claims. Unknown /api paths
// and a missing directory get a JSON 404.
func SetupStatic(router *gin.Engine, dir string) {
	var files http.Handler
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			files = http.FileServer(http.Dir(dir))
			logger.Info().Str("dir", dir).Msg("Serving static UI")
		} else {
			logger.Warn().Str("dir", dir).Msg("Static directory not found, UI disabled")
		}
	}

	router.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if files == nil || strings.HasPrefix(p, "/api/") || !isReadMethod(c.Request.Method) || !exists(dir, p) {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func exists(dir, urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean)))
	return err == nil
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "route not found").WithSeverity(dto.ErrorSeverityWarning),
	))
}
