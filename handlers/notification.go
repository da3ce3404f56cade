package handlers

import (
	"errors"
	"net/http"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"
	"notifyrelay/services/reply"
	"notifyrelay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler serves the notification endpoints of the gateway.
type NotificationHandler struct {
	Repo     notificationRepo.NotificationRepository
	ReplySvc reply.ReplyService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo notificationRepo.NotificationRepository, replySvc reply.ReplyService) *NotificationHandler {
	return &NotificationHandler{Repo: repo, ReplySvc: replySvc}
}

// createNotificationRequest is the body accepted by POST /api/v1/notifications.
type createNotificationRequest struct {
	Kind      models.NotificationKind `json:"kind"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	Priority  models.Priority         `json:"priority"`
	ProjectID string                  `json:"project_id"`
	Metadata  map[string]any          `json:"metadata"`
}

// CreateNotificationHandler accepts a new notification from the backend and
// stores it as pending; the delivery pipeline takes it from there.
func (h *NotificationHandler) CreateNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid request body: "+err.Error()))
		return
	}

	// Kind is required; an absent kind is rejected by Validate on create.
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	n := models.Notification{
		Kind:      req.Kind,
		Title:     req.Title,
		Body:      req.Body,
		Priority:  req.Priority,
		ProjectID: req.ProjectID,
		Metadata:  req.Metadata,
	}

	id, err := h.Repo.Create(c.Request.Context(), n)
	if err != nil {
		if errors.Is(err, utils.ErrValidation) {
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
			return
		}
		logger.Error("Failed to create notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to create notification"))
		return
	}

	logger.Info("Notification created", zap.String("notificationId", id), zap.String("kind", string(req.Kind)))
	c.JSON(http.StatusOK, models.OK(gin.H{"notification_id": id}))
}

// GetNotificationHandler returns a single notification by id.
func (h *NotificationHandler) GetNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	id := c.Param("id")
	n, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.Fail("notification not found"))
			return
		}
		logger.Error("Failed to fetch notification", zap.String("notificationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to fetch notification"))
		return
	}

	c.JSON(http.StatusOK, models.OK(n))
}

// MarkReadHandler records a read receipt for a notification.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	logger := getLogger(c)

	id := c.Param("id")
	if err := h.ReplySvc.MarkRead(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			c.JSON(http.StatusNotFound, models.Fail("notification not found"))
		case errors.Is(err, utils.ErrConflict):
			c.JSON(http.StatusConflict, models.Fail(err.Error()))
		default:
			logger.Error("Failed to mark notification read", zap.String("notificationId", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.Fail("failed to mark notification read"))
		}
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{"notification_id": id}))
}

// ListRepliesHandler returns the replies recorded for a notification,
// oldest first.
func (h *NotificationHandler) ListRepliesHandler(c *gin.Context) {
	logger := getLogger(c)

	id := c.Param("id")
	if _, err := h.Repo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.Fail("notification not found"))
			return
		}
		logger.Error("Failed to fetch notification", zap.String("notificationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to fetch notification"))
		return
	}

	replies, err := h.Repo.GetRepliesByNotificationID(c.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to list replies", zap.String("notificationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to list replies"))
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{
		"responses": replies,
		"count":     len(replies),
	}))
}

// ListNotificationsHandler serves read-side queries with optional status and
// project filters.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	logger := getLogger(c)

	filter := notificationRepo.ListFilter{
		Status:    models.NotificationStatus(c.Query("status")),
		ProjectID: c.Query("project_id"),
	}

	notifications, err := h.Repo.ListActive(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to list notifications"))
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	}))
}
