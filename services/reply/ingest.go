package reply

import (
	"context"
	"fmt"
	"time"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.uber.org/zap"
)

// Ingest processes one inbound reply event. An unmatched message handle is a
// silent no-op: correlations are lost on restart and late replies to consumed
// handles are expected, so neither is an error worth surfacing upstream.
func (s *DefaultReplyService) Ingest(ctx context.Context, event models.ReplyEvent) (*Result, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	notificationID := event.NotificationID
	if notificationID == "" {
		id, found, err := s.Correlation.Consume(ctx, event.MessageHandle)
		if err != nil {
			return nil, fmt.Errorf("correlation lookup: %w", err)
		}
		if !found {
			s.logger.Info("Unmatched reply discarded",
				zap.String("handle", event.MessageHandle),
				zap.String("userId", event.UserID))
			return &Result{Matched: false}, nil
		}
		notificationID = id
	}

	n, err := s.Repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	// Idempotent per notification: a second reply after REPLIED changes
	// nothing and is not forwarded again.
	if n.Status == models.StatusReplied {
		s.logger.Info("Notification already replied, ignoring duplicate",
			zap.String("notificationId", n.ID))
		return &Result{NotificationID: n.ID, Matched: true, AlreadyReplied: true}, nil
	}

	if !n.ExpectsReply() {
		return nil, fmt.Errorf("%w: notification %s is %s-kind and does not expect a reply",
			utils.ErrValidation, n.ID, n.Kind)
	}
	if !models.CanTransition(n.Status, models.StatusReplied) {
		return nil, fmt.Errorf("%w: notification %s is %s and cannot accept a reply",
			utils.ErrValidation, n.ID, n.Status)
	}

	record := models.NotificationReply{
		NotificationID: n.ID,
		ResponseText:   event.ResponseText,
		UserID:         event.UserID,
		RespondedAt:    time.Now().UTC(),
	}

	// Forward first: if the backend does not take the reply, the status stays
	// where it was and the transport layer decides whether to retry. The
	// consumed correlation is not restored.
	if err := s.Notifier.SendReply(ctx, record); err != nil {
		s.logger.Error("Failed to forward reply to backend",
			zap.String("notificationId", n.ID), zap.Error(err))
		return nil, err
	}

	if _, err := s.Repo.SaveReply(ctx, record); err != nil {
		s.logger.Error("Failed to persist reply record",
			zap.String("notificationId", n.ID), zap.Error(err))
		return nil, err
	}

	ok, err := s.Repo.TransitionStatus(ctx, n.ID, n.Status, models.StatusReplied, notificationRepo.FieldRepliedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent event finalized the notification between our read and
		// the transition; treat it as the duplicate it is.
		s.logger.Warn("Lost reply race, notification already finalized",
			zap.String("notificationId", n.ID))
		return &Result{NotificationID: n.ID, Matched: true, AlreadyReplied: true}, nil
	}

	s.logger.Info("Reply accepted",
		zap.String("notificationId", n.ID),
		zap.String("userId", event.UserID))

	return &Result{NotificationID: n.ID, Matched: true}, nil
}
