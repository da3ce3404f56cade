package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"notifyrelay/utils"
)

// NotificationKind classifies what a notification is about. Only "question"
// affects pipeline behavior: it marks the notification as expecting a reply.
type NotificationKind string

const (
	KindMilestone NotificationKind = "milestone"
	KindQuestion  NotificationKind = "question"
	KindAlert     NotificationKind = "alert"
	KindStatus    NotificationKind = "status"
	KindError     NotificationKind = "error"
)

// Priority is advisory for presentation on the bot side. Delivery order is
// strictly FIFO by creation time.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// NotificationStatus is the single source of truth for pipeline behavior.
type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusSent      NotificationStatus = "sent"
	StatusDelivered NotificationStatus = "delivered"
	StatusRead      NotificationStatus = "read"
	StatusReplied   NotificationStatus = "replied"
	StatusFailed    NotificationStatus = "failed"
)

// Terminal reports whether no further delivery work applies to the status.
func (s NotificationStatus) Terminal() bool {
	return s == StatusReplied || s == StatusFailed
}

// Notification is a unit of information pushed to a human reviewer, tracked
// through its delivery/reply lifecycle.
type Notification struct {
	ID         string             `bson:"id" json:"id"`
	Kind       NotificationKind   `bson:"kind" json:"kind"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Priority   Priority           `bson:"priority" json:"priority"`
	ProjectID  string             `bson:"projectId,omitempty" json:"project_id,omitempty"`
	Status     NotificationStatus `bson:"status" json:"status"`
	RetryCount int                `bson:"retryCount" json:"retry_count"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	SentAt     *time.Time         `bson:"sentAt,omitempty" json:"sent_at,omitempty"`
	ReadAt     *time.Time         `bson:"readAt,omitempty" json:"read_at,omitempty"`
	RepliedAt  *time.Time         `bson:"repliedAt,omitempty" json:"replied_at,omitempty"`
	Metadata   map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// ExpectsReply reports whether the pipeline should track a reply correlation
// after a successful send.
func (n *Notification) ExpectsReply() bool {
	return n.Kind == KindQuestion
}

func validKind(k NotificationKind) bool {
	switch k {
	case KindMilestone, KindQuestion, KindAlert, KindStatus, KindError:
		return true
	}
	return false
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Validate checks the creation-time constraints on a notification payload.
func (n *Notification) Validate() error {
	if !validKind(n.Kind) {
		return fmt.Errorf("%w: unknown kind %q", utils.ErrValidation, n.Kind)
	}
	if !validPriority(n.Priority) {
		return fmt.Errorf("%w: unknown priority %q", utils.ErrValidation, n.Priority)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", utils.ErrValidation)
	}
	// Limits count characters, not bytes; multi-byte text must not shrink
	// the allowed length.
	if utf8.RuneCountInString(n.Title) > utils.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", utils.ErrValidation, utils.MaxTitleLength)
	}
	if n.Body == "" {
		return fmt.Errorf("%w: body is required", utils.ErrValidation)
	}
	if utf8.RuneCountInString(n.Body) > utils.MaxBodyLength {
		return fmt.Errorf("%w: body exceeds %d characters", utils.ErrValidation, utils.MaxBodyLength)
	}
	return nil
}

// statusRank orders statuses along the lifecycle so transitions can be checked
// for monotonicity. FAILED sits last: it is reachable from any non-terminal
// state but nothing leaves it.
var statusRank = map[NotificationStatus]int{
	StatusPending:   0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
	StatusReplied:   4,
	StatusFailed:    5,
}

// CanTransition reports whether moving from one status to another is legal
// under the lifecycle graph.
func CanTransition(from, to NotificationStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusSent
	case StatusSent:
		return to == StatusDelivered || to == StatusRead || to == StatusReplied
	case StatusDelivered:
		return to == StatusRead || to == StatusReplied
	case StatusRead:
		return to == StatusReplied
	}
	return false
}

// StatusRank exposes the lifecycle ordering for callers that only need to
// reject backward moves.
func StatusRank(s NotificationStatus) int {
	return statusRank[s]
}
