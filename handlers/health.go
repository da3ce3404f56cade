package handlers

import (
	"net/http"
	"time"

	notificationRepo "notifyrelay/database/repository/notification"
	projectRepo "notifyrelay/database/repository/project"
	"notifyrelay/models"
	"notifyrelay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler serves the aggregate health endpoint.
type HealthHandler struct {
	Notifications notificationRepo.NotificationRepository
	Projects      projectRepo.ProjectRepository
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(notifications notificationRepo.NotificationRepository, projects projectRepo.ProjectRepository) *HealthHandler {
	return &HealthHandler{Notifications: notifications, Projects: projects}
}

func statusWord(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}

// HealthCheckHandler reports the latest monitor snapshot plus live counts of
// pending notifications and active projects. Store or notifier trouble
// degrades the report; it never fails the endpoint.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	logger := getLogger(c)
	snapshot := utils.GetHealthStatus()

	health := models.SystemHealth{
		ServerStatus:   "healthy",
		NotifierStatus: statusWord(snapshot.Notifier),
		DatabaseStatus: statusWord(snapshot.Mongo),
		LastCheck:      snapshot.CheckedAt,
	}
	if snapshot.CheckedAt.IsZero() {
		// The monitor has not completed a pass yet.
		health.NotifierStatus = "unknown"
		health.DatabaseStatus = "unknown"
		health.LastCheck = time.Now()
	}

	if pending, err := h.Notifications.CountPending(c.Request.Context()); err == nil {
		health.PendingNotifications = pending
	} else {
		logger.Warn("Failed to count pending notifications", zap.Error(err))
		health.DatabaseStatus = "unhealthy"
	}

	if active, err := h.Projects.CountActive(c.Request.Context()); err == nil {
		health.ActiveProjects = active
	} else {
		logger.Warn("Failed to count active projects", zap.Error(err))
	}

	c.JSON(http.StatusOK, health)
}
