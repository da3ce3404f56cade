package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notifyrelay/models"
	"notifyrelay/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create validates and inserts a new notification with status pending.
func (r *mongoNotificationRepo) Create(ctx context.Context, n models.Notification) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Status = models.StatusPending
	n.RetryCount = 0
	n.CreatedAt = time.Now().UTC()
	n.SentAt = nil
	n.ReadAt = nil
	n.RepliedAt = nil

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	return n.ID, nil
}

// GetByID returns a notification by its ID.
func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: notification %s", utils.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateStatus applies an unconditional status update, stamping the named
// timestamp field with the current time.
func (r *mongoNotificationRepo) UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, tsField TimestampField) error {
	set := bson.M{"status": status}
	if tsField != FieldNone {
		set[string(tsField)] = time.Now().UTC()
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: notification %s", utils.ErrNotFound, id)
	}
	return nil
}

// TransitionStatus applies a compare-and-set status update. The status filter
// makes the ListPending/transition pair safe across concurrent workers: only
// one writer can move a notification out of a given status.
func (r *mongoNotificationRepo) TransitionStatus(ctx context.Context, id string, from, to models.NotificationStatus, tsField TimestampField) (bool, error) {
	set := bson.M{"status": to}
	if tsField != FieldNone {
		set[string(tsField)] = time.Now().UTC()
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// IncrementRetry bumps the retry counter of a pending notification and
// returns the new count.
func (r *mongoNotificationRepo) IncrementRetry(ctx context.Context, id string) (int, error) {
	after := options.After
	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": models.StatusPending},
		bson.M{"$inc": bson.M{"retryCount": 1}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	var n models.Notification
	if err := res.Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("%w: pending notification %s", utils.ErrNotFound, id)
		}
		return 0, err
	}
	return n.RetryCount, nil
}
