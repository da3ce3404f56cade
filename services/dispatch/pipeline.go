package dispatch

import (
	"context"
	"fmt"
	"time"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"

	"go.uber.org/zap"
)

// RunCycle fetches all pending notifications oldest-first and attempts each
// one. A failing item never aborts the rest of the batch.
func (s *DefaultDispatchService) RunCycle(ctx context.Context) error {
	pending, err := s.Repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	s.logger.Debug("Dispatch cycle starting", zap.Int("pending", len(pending)))

	for i := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Pace consecutive sends to respect downstream rate limits.
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
		s.deliverOne(ctx, &pending[i])
	}
	return nil
}

// deliverOne attempts a single notification: on success it transitions to
// SENT (and registers a reply correlation for questions); on failure it bumps
// the retry counter and fails the notification once the bound is exhausted.
func (s *DefaultDispatchService) deliverOne(ctx context.Context, n *models.Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, s.SendTimeout)
	defer cancel()

	handle, err := s.Notifier.Send(sendCtx, *n)
	if err != nil {
		s.recordFailure(ctx, n, err)
		return
	}

	// The status filter makes this a compare-and-set: when two workers race
	// over the same pending batch only one of them owns the transition.
	ok, err := s.Repo.TransitionStatus(ctx, n.ID, models.StatusPending, models.StatusSent, notificationRepo.FieldSentAt)
	if err != nil {
		s.logger.Error("Failed to mark notification sent",
			zap.String("notificationId", n.ID), zap.Error(err))
		return
	}
	if !ok {
		s.logger.Warn("Lost status race after send, skipping correlation",
			zap.String("notificationId", n.ID))
		return
	}

	s.logger.Info("Notification sent",
		zap.String("notificationId", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("handle", handle))

	if n.ExpectsReply() {
		if err := s.Correlation.Register(ctx, handle, n.ID); err != nil {
			// The notification went out; a lost correlation only means the
			// eventual reply will be unmatched.
			s.logger.Error("Failed to register reply correlation",
				zap.String("notificationId", n.ID),
				zap.String("handle", handle),
				zap.Error(err))
		}
	}
}

func (s *DefaultDispatchService) recordFailure(ctx context.Context, n *models.Notification, sendErr error) {
	count, err := s.Repo.IncrementRetry(ctx, n.ID)
	if err != nil {
		s.logger.Error("Failed to record delivery failure",
			zap.String("notificationId", n.ID), zap.Error(err))
		return
	}

	if count >= s.MaxRetries {
		if _, err := s.Repo.TransitionStatus(ctx, n.ID, models.StatusPending, models.StatusFailed, notificationRepo.FieldNone); err != nil {
			s.logger.Error("Failed to mark notification failed",
				zap.String("notificationId", n.ID), zap.Error(err))
			return
		}
		s.logger.Warn("Notification failed permanently",
			zap.String("notificationId", n.ID),
			zap.Int("attempts", count),
			zap.Error(sendErr))
		return
	}

	s.logger.Warn("Notification delivery failed, will retry next cycle",
		zap.String("notificationId", n.ID),
		zap.Int("attempt", count),
		zap.Int("maxRetries", s.MaxRetries),
		zap.Error(sendErr))
}

// Run drives the delivery cycle on a ticker until ctx is cancelled. A cycle
// that panics or errors is logged and the loop keeps going; the pipeline must
// never take the process down.
func (s *DefaultDispatchService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Dispatch pipeline started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Dispatch pipeline stopped")
			return
		case <-ticker.C:
			s.safeCycle(ctx)
		}
	}
}

func (s *DefaultDispatchService) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Dispatch cycle panicked", zap.Any("panic", r))
		}
	}()
	if err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Dispatch cycle failed", zap.Error(err))
	}
}
