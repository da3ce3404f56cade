package reply

import (
	"context"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"
	"notifyrelay/services/dispatch"
	"notifyrelay/services/notifier"
	"notifyrelay/utils"

	"go.uber.org/zap"
)

// Result reports what happened to an ingested reply event.
type Result struct {
	NotificationID string `json:"notification_id,omitempty"`
	Matched        bool   `json:"matched"`
	// AlreadyReplied is set when the notification was REPLIED before this
	// event arrived; the event is acknowledged without side effects.
	AlreadyReplied bool `json:"already_replied,omitempty"`
}

// ReplyService resolves inbound reply events against the correlation table
// and finalizes the originating notification.
type ReplyService interface {
	Ingest(ctx context.Context, event models.ReplyEvent) (*Result, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkDelivered(ctx context.Context, notificationID string) error
}

// DefaultReplyService is the production implementation.
type DefaultReplyService struct {
	Repo        notificationRepo.NotificationRepository
	Correlation dispatch.CorrelationTable
	Notifier    notifier.Notifier

	logger *zap.Logger
}

// NewReplyService wires a reply ingestor.
func NewReplyService(
	repo notificationRepo.NotificationRepository,
	correlation dispatch.CorrelationTable,
	ntf notifier.Notifier,
) *DefaultReplyService {
	return &DefaultReplyService{
		Repo:        repo,
		Correlation: correlation,
		Notifier:    ntf,
		logger:      utils.GetLogger(),
	}
}
