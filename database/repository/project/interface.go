package projectRepo

import (
	"context"

	"notifyrelay/config"
	"notifyrelay/database"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepository stores project records for the read-side dashboard and
// work-status reporting.
type ProjectRepository interface {
	Create(ctx context.Context, p models.Project) (string, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	UpdateWorkStatus(ctx context.Context, status models.WorkStatus) error
	ListActive(ctx context.Context) ([]models.Project, error)
	CountActive(ctx context.Context) (int64, error)
}

type mongoProjectRepo struct {
	coll *mongo.Collection
}

// NewMongoProjectRepo returns a ProjectRepository backed by MongoDB.
func NewMongoProjectRepo() ProjectRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &mongoProjectRepo{
		coll: db.Collection("projects"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("project repo: failed to ensure indexes: %v", err)
	}
	return repo
}
