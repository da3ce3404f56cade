package notificationRepo

import (
	"context"

	"notifyrelay/config"
	"notifyrelay/database"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// TimestampField names the lifecycle timestamp to stamp alongside a status
// update. Empty means no timestamp is touched.
type TimestampField string

const (
	FieldNone      TimestampField = ""
	FieldSentAt    TimestampField = "sentAt"
	FieldReadAt    TimestampField = "readAt"
	FieldRepliedAt TimestampField = "repliedAt"
)

// ListFilter narrows read-side queries over notifications.
type ListFilter struct {
	Status    models.NotificationStatus
	ProjectID string
	Limit     int64
}

// NotificationRepository is the durable store for notifications and their
// replies. It performs no state-graph validation beyond atomicity; transition
// policy lives in the dispatch and reply services.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (string, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)

	// UpdateStatus applies an unconditional status update. The caller is
	// responsible for only requesting legal transitions.
	UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, tsField TimestampField) error

	// TransitionStatus applies a compare-and-set status update: it succeeds
	// only if the stored status still equals from. Returns false when another
	// writer won the race (or the id is unknown to that filter).
	TransitionStatus(ctx context.Context, id string, from, to models.NotificationStatus, tsField TimestampField) (bool, error)

	// IncrementRetry bumps the retry counter of a still-pending notification
	// and returns the new count.
	IncrementRetry(ctx context.Context, id string) (int, error)

	// ListPending returns all pending notifications, oldest first.
	ListPending(ctx context.Context) ([]models.Notification, error)
	ListActive(ctx context.Context, filter ListFilter) ([]models.Notification, error)
	CountPending(ctx context.Context) (int64, error)

	SaveReply(ctx context.Context, reply models.NotificationReply) (string, error)
	GetRepliesByNotificationID(ctx context.Context, notificationID string) ([]models.NotificationReply, error)
}

type mongoNotificationRepo struct {
	coll      *mongo.Collection
	replyColl *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &mongoNotificationRepo{
		coll:      db.Collection("notifications"),
		replyColl: db.Collection("notification_replies"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("notification repo: failed to ensure indexes: %v", err)
	}
	return repo
}
