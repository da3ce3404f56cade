package reply

import (
	"context"
	"fmt"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.uber.org/zap"
)

// MarkRead applies a read receipt from the chat platform. SENT and DELIVERED
// both advance to READ; a repeated receipt is a no-op.
func (s *DefaultReplyService) MarkRead(ctx context.Context, notificationID string) error {
	n, err := s.Repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if n.Status == models.StatusRead {
		return nil
	}
	if !models.CanTransition(n.Status, models.StatusRead) {
		return fmt.Errorf("%w: notification %s is %s and cannot be marked read",
			utils.ErrConflict, n.ID, n.Status)
	}

	ok, err := s.Repo.TransitionStatus(ctx, n.ID, n.Status, models.StatusRead, notificationRepo.FieldReadAt)
	if err != nil {
		return err
	}
	if !ok {
		// Raced with a reply or another receipt; the later state wins.
		s.logger.Debug("Read receipt lost status race", zap.String("notificationId", n.ID))
	}
	return nil
}

// MarkDelivered records a delivery receipt for transports that distinguish
// delivery from send. The default webhook notifier never reports these, but
// the transition is part of the lifecycle contract.
func (s *DefaultReplyService) MarkDelivered(ctx context.Context, notificationID string) error {
	ok, err := s.Repo.TransitionStatus(ctx, notificationID, models.StatusSent, models.StatusDelivered, notificationRepo.FieldNone)
	if err != nil {
		return err
	}
	if !ok {
		n, err := s.Repo.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}
		if models.StatusRank(n.Status) > models.StatusRank(models.StatusDelivered) {
			return nil
		}
		return fmt.Errorf("%w: notification %s is %s and cannot be marked delivered",
			utils.ErrConflict, n.ID, n.Status)
	}
	return nil
}
