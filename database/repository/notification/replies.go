package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"notifyrelay/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveReply persists an accepted reply and returns its ID.
func (r *mongoNotificationRepo) SaveReply(ctx context.Context, reply models.NotificationReply) (string, error) {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.RespondedAt.IsZero() {
		reply.RespondedAt = time.Now().UTC()
	}
	if _, err := r.replyColl.InsertOne(ctx, reply); err != nil {
		return "", fmt.Errorf("insert reply: %w", err)
	}
	return reply.ID, nil
}

// GetRepliesByNotificationID fetches all replies recorded for a notification,
// oldest first.
func (r *mongoNotificationRepo) GetRepliesByNotificationID(ctx context.Context, notificationID string) ([]models.NotificationReply, error) {
	opts := options.Find().SetSort(bson.D{{Key: "respondedAt", Value: 1}})
	cursor, err := r.replyColl.Find(ctx, bson.M{"notificationId": notificationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []models.NotificationReply
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}
