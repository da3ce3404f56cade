// FILE: database/repository/notification/indexes.go
package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the notification collections.
func (r *mongoNotificationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on notification ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Compound index for the delivery cycle's pending scan (FIFO order)
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
		// Read-side queries by project
		{
			Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("project_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	replyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "notificationId", Value: 1}, {Key: "respondedAt", Value: 1}},
			Options: options.Index().SetName("notification_responded_idx"),
		},
	}
	if _, err := r.replyColl.Indexes().CreateMany(ctx, replyIndexes); err != nil {
		return fmt.Errorf("failed to create reply indexes: %w", err)
	}
	return nil
}
