package projectRepo

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

// Create inserts a new project record and returns its ID.
func (r *mongoProjectRepo) Create(ctx context.Context, p models.Project) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}
	return p.ID, nil
}

// GetByID returns a project by its ID.
func (r *mongoProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: project %s", utils.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateWorkStatus applies a backend progress report to a project. Detail
// metadata is merged key-by-key rather than replaced.
func (r *mongoProjectRepo) UpdateWorkStatus(ctx context.Context, status models.WorkStatus) error {
	set := bson.M{
		"currentTask": status.CurrentTask,
		"progress":    status.Progress,
		"updatedAt":   time.Now().UTC(),
	}
	if status.EstimatedCompletion != nil {
		set["estimatedCompletion"] = *status.EstimatedCompletion
	}
	for k, v := range status.Details {
		set["metadata."+k] = v
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": status.ProjectID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: project %s", utils.ErrNotFound, status.ProjectID)
	}
	return nil
}

// ListActive returns active projects, most recently updated first.
func (r *mongoProjectRepo) ListActive(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.ProjectActive}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CountActive returns the number of active projects.
func (r *mongoProjectRepo) CountActive(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": models.ProjectActive})
}
