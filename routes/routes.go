package routes

import (
	"time"

	"notifyrelay/config"
	"notifyrelay/handlers"
	"notifyrelay/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the notification and reply endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1")
	{
		api.Use(middleware.APIKeyAuthMiddleware(config.AppConfig.APIKey))

		api.POST("/notifications", hb.CreateNotificationHandler)
		api.GET("/notifications", hb.ListNotificationsHandler)
		api.GET("/notifications/:id", hb.GetNotificationHandler)
		api.GET("/notifications/:id/responses", hb.ListRepliesHandler)
		api.PUT("/notifications/:id/read", hb.MarkReadHandler)

		api.POST("/responses", hb.SubmitReplyHandler)

		api.POST("/projects", hb.CreateProjectHandler)
		api.GET("/projects", hb.ListProjectsHandler)
		api.PUT("/work-status", hb.UpdateWorkStatusHandler)
	}
}

// RegisterHealthRoute registers the unauthenticated health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
