package notificationRepo

import (
	"context"

	"notifyrelay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListPending returns all pending notifications ordered by creation time,
// oldest first. Delivery order is FIFO regardless of priority.
func (r *mongoNotificationRepo) ListPending(ctx context.Context) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListActive serves read-side queries (dashboards, project views).
func (r *mongoNotificationRepo) ListActive(ctx context.Context, filter ListFilter) ([]models.Notification, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProjectID != "" {
		query["projectId"] = filter.ProjectID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountPending returns the number of notifications awaiting delivery.
func (r *mongoNotificationRepo) CountPending(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": models.StatusPending})
}
