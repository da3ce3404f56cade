package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"notifyrelay/utils"
)

// ReplyEvent is an inbound reply as reported by the chat platform: the
// platform-assigned message handle, the free-text reply, and who wrote it.
// Either MessageHandle or NotificationID must be set.
type ReplyEvent struct {
	MessageHandle  string `json:"message_handle,omitempty"`
	NotificationID string `json:"notification_id,omitempty"`
	ResponseText   string `json:"response_text"`
	UserID         string `json:"user_id"`
}

// Validate checks the boundary constraints on a reply event.
func (e *ReplyEvent) Validate() error {
	if e.MessageHandle == "" && e.NotificationID == "" {
		return fmt.Errorf("%w: message_handle or notification_id is required", utils.ErrValidation)
	}
	if e.ResponseText == "" {
		return fmt.Errorf("%w: response_text is required", utils.ErrValidation)
	}
	if utf8.RuneCountInString(e.ResponseText) > utils.MaxReplyLength {
		return fmt.Errorf("%w: response_text exceeds %d characters", utils.ErrValidation, utils.MaxReplyLength)
	}
	if e.UserID == "" {
		return fmt.Errorf("%w: user_id is required", utils.ErrValidation)
	}
	return nil
}

// NotificationReply is the persisted record of an accepted reply.
type NotificationReply struct {
	ID             string         `bson:"id" json:"id"`
	NotificationID string         `bson:"notificationId" json:"notification_id"`
	ResponseText   string         `bson:"responseText" json:"response_text"`
	UserID         string         `bson:"userId" json:"user_id"`
	RespondedAt    time.Time      `bson:"respondedAt" json:"responded_at"`
	Metadata       map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
