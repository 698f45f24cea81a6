package router

import (
	"time"

	"planeteye/backend/internal/config"
	"planeteye/backend/internal/handlers"
	"planeteye/backend/internal/middleware"
	"planeteye/backend/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Tasks     *handlers.TaskHandler
	Users     *handlers.UserHandler
	Projects  *handlers.ProjectHandler
	Dashboard *handlers.DashboardHandler
	Quote     *handlers.QuoteHandler
}

// New wires routes and middleware. Capability gates sit on the routes and
// the services check again underneath; hiding an affordance client-side is
// not the authorization boundary.
func New(cfg *config.Config, db *gorm.DB, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RecoveryWithLog())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	r.GET("/health", monitoring.HealthHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	api := r.Group("/api")

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/quote", h.Quote.GetQuote)

	secured := api.Group("", middleware.AuthMiddleware(db))
	{
		secured.GET("/me", h.Auth.Me)
		secured.GET("/dashboard", h.Dashboard.GetDashboard)

		secured.GET("/tasks", h.Tasks.GetTasks)
		secured.GET("/tasks/:id", h.Tasks.GetTaskByID)
		secured.POST("/tasks", h.Tasks.CreateTask)
		secured.POST("/tasks/sos", h.Tasks.CreateSOS)
		secured.POST("/tasks/:id/toggle", h.Tasks.ToggleComplete)
		secured.POST("/tasks/assign", middleware.RequireGroupCapability(), h.Tasks.Delegate)

		secured.GET("/users", h.Users.GetUsers)
		secured.GET("/users/:id", h.Users.GetUserByID)
		secured.POST("/users", middleware.RequireManageEmployees(), h.Users.Onboard)

		secured.GET("/projects", h.Projects.GetProjects)
		secured.GET("/projects/:id", h.Projects.GetProjectByID)
	}

	return r
}
