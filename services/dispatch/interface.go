package dispatch

import (
	"context"
	"time"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/services/notifier"
	"notifyrelay/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DispatchService advances pending notifications toward SENT or FAILED.
type DispatchService interface {
	// RunCycle drains the current pending batch once. Item failures are
	// absorbed; it only errors when the batch itself cannot be listed.
	RunCycle(ctx context.Context) error
	// Run drives RunCycle on a fixed interval until ctx is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

// DefaultDispatchService is the production delivery pipeline.
type DefaultDispatchService struct {
	Repo        notificationRepo.NotificationRepository
	Notifier    notifier.Notifier
	Correlation CorrelationTable

	// MaxRetries bounds delivery attempts before a notification is FAILED.
	MaxRetries int
	// SendTimeout bounds a single notifier call.
	SendTimeout time.Duration

	pacer  *rate.Limiter
	logger *zap.Logger
}

// NewDispatchService wires a delivery pipeline. sendDelay is the enforced
// pause between consecutive sends within one cycle.
func NewDispatchService(
	repo notificationRepo.NotificationRepository,
	ntf notifier.Notifier,
	correlation CorrelationTable,
	maxRetries int,
	sendTimeout, sendDelay time.Duration,
) *DefaultDispatchService {
	return &DefaultDispatchService{
		Repo:        repo,
		Notifier:    ntf,
		Correlation: correlation,
		MaxRetries:  maxRetries,
		SendTimeout: sendTimeout,
		pacer:       rate.NewLimiter(rate.Every(sendDelay), 1),
		logger:      utils.GetLogger(),
	}
}
