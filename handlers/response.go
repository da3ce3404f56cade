package handlers

import (
	"errors"
	"net/http"

	"notifyrelay/models"
	"notifyrelay/services/reply"
	"notifyrelay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReplyHandler serves the inbound reply endpoint.
type ReplyHandler struct {
	Svc reply.ReplyService
}

// NewReplyHandler constructs a ReplyHandler.
func NewReplyHandler(svc reply.ReplyService) *ReplyHandler {
	return &ReplyHandler{Svc: svc}
}

// SubmitReplyHandler accepts a reviewer's reply from the chat platform.
// Unmatched handles are acknowledged with matched:false rather than erroring,
// since lost correlations are expected after a restart.
func (h *ReplyHandler) SubmitReplyHandler(c *gin.Context) {
	logger := getLogger(c)

	var event models.ReplyEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid request body: "+err.Error()))
		return
	}

	result, err := h.Svc.Ingest(c.Request.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrValidation):
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		case errors.Is(err, utils.ErrNotFound):
			c.JSON(http.StatusNotFound, models.Fail("notification not found"))
		case errors.Is(err, utils.ErrDelivery):
			// The backend did not take the reply; the transport layer owns
			// the retry decision.
			c.JSON(http.StatusBadGateway, models.Fail("failed to forward reply to backend"))
		default:
			logger.Error("Failed to ingest reply", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.Fail("failed to process reply"))
		}
		return
	}

	c.JSON(http.StatusOK, models.OK(result))
}
