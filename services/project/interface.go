package project

import (
	"context"

	notificationRepo "notifyrelay/database/repository/notification"
	projectRepo "notifyrelay/database/repository/project"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.uber.org/zap"
)

// ProjectService handles backend work-status reports and the read-side
// project queries.
type ProjectService interface {
	Create(ctx context.Context, p models.Project) (string, error)
	UpdateWorkStatus(ctx context.Context, status models.WorkStatus) error
	ListActive(ctx context.Context) ([]models.Project, error)
}

// DefaultProjectService is the production implementation.
type DefaultProjectService struct {
	Repo          projectRepo.ProjectRepository
	Notifications notificationRepo.NotificationRepository

	logger *zap.Logger
}

// NewProjectService wires a project service. Notifications may be nil when
// milestone announcements are not wanted.
func NewProjectService(
	repo projectRepo.ProjectRepository,
	notifications notificationRepo.NotificationRepository,
) *DefaultProjectService {
	return &DefaultProjectService{
		Repo:          repo,
		Notifications: notifications,
		logger:        utils.GetLogger(),
	}
}
