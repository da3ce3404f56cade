// File: notifyrelay/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Notification endpoints
	CreateNotificationHandler gin.HandlerFunc
	GetNotificationHandler    gin.HandlerFunc
	ListNotificationsHandler  gin.HandlerFunc
	ListRepliesHandler        gin.HandlerFunc
	MarkReadHandler           gin.HandlerFunc

	// Reply endpoint
	SubmitReplyHandler gin.HandlerFunc

	// Project endpoints
	CreateProjectHandler    gin.HandlerFunc
	ListProjectsHandler     gin.HandlerFunc
	UpdateWorkStatusHandler gin.HandlerFunc

	// Health endpoint
	HealthCheckHandler gin.HandlerFunc
}
