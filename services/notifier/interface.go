package notifier

import (
	"context"

	"notifyrelay/models"
)

// Notifier abstracts the chat-platform side of the relay. Send pushes a
// rendered notification and returns the platform-assigned message handle;
// SendReply forwards a reviewer's reply back to the automation backend.
type Notifier interface {
	Send(ctx context.Context, n models.Notification) (string, error)
	SendReply(ctx context.Context, reply models.NotificationReply) error
	HealthCheck(ctx context.Context) bool
}
