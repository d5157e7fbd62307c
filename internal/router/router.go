package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/testhive/testhive-backend/internal/config"
	"github.com/testhive/testhive-backend/internal/handler"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Test       *handler.TestHandler
	Submission *handler.SubmissionHandler
	Result     *handler.ResultHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	generateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestID())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth group: login and register are public, profile routes are not.
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// Test group: role split per route.
	test := router.Group("/api/v1/test")
	{
		// Teacher routes. Generation is rate limited per user.
		test.POST("/generate",
			middleware.RequireTeacher(authService),
			generateLimiter.Middleware(),
			handlers.Test.Generate,
		)
		test.GET("/teacher", middleware.RequireTeacher(authService), handlers.Test.ListTeacherTests)
		test.GET("/:test_id/results", middleware.RequireTeacher(authService), handlers.Result.ListTestResults)
		test.GET("/:test_id/proctor-events", middleware.RequireTeacher(authService), handlers.Result.ListProctorEvents)

		// Student routes.
		test.POST("/access", middleware.RequireStudent(authService), handlers.Test.Access)
		test.GET("/code/:code", middleware.RequireStudent(authService), handlers.Test.GetByCode)
		test.POST("/:test_id/submit", middleware.RequireStudent(authService), handlers.Submission.Submit)

		// Any authenticated role; the handler shapes the view.
		test.GET("/:test_id", middleware.RequireAuth(authService), handlers.Test.GetByID)
	}

	// Student group.
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudent(authService))
	{
		studentAPI.GET("/results", handlers.Result.ListStudentResults)
	}

	// WebSocket group: token travels as a query param.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/test/:test_id/proctor", handlers.WS.ProctorStream)
	}

	return router
}
