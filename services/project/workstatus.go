package project

import (
	"context"
	"fmt"

	"notifyrelay/models"

	"go.uber.org/zap"
)

// Progress marks that produce a milestone notification when first crossed.
var milestoneThresholds = []int{25, 50, 75, 100}

// Create registers a new project.
func (s *DefaultProjectService) Create(ctx context.Context, p models.Project) (string, error) {
	return s.Repo.Create(ctx, p)
}

// ListActive returns active projects, most recently updated first.
func (s *DefaultProjectService) ListActive(ctx context.Context) ([]models.Project, error) {
	return s.Repo.ListActive(ctx)
}

// UpdateWorkStatus applies a backend progress report. Crossing a progress
// threshold enqueues a milestone notification, which the delivery pipeline
// picks up on its next cycle.
func (s *DefaultProjectService) UpdateWorkStatus(ctx context.Context, status models.WorkStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	prev, err := s.Repo.GetByID(ctx, status.ProjectID)
	if err != nil {
		return err
	}

	if err := s.Repo.UpdateWorkStatus(ctx, status); err != nil {
		return err
	}

	if s.Notifications == nil {
		return nil
	}
	if crossed, mark := crossedThreshold(prev.Progress, status.Progress); crossed {
		s.announceMilestone(ctx, prev, status, mark)
	}
	return nil
}

func crossedThreshold(before, after int) (bool, int) {
	for i := len(milestoneThresholds) - 1; i >= 0; i-- {
		mark := milestoneThresholds[i]
		if before < mark && after >= mark {
			return true, mark
		}
	}
	return false, 0
}

func (s *DefaultProjectService) announceMilestone(ctx context.Context, p *models.Project, status models.WorkStatus, mark int) {
	n := models.Notification{
		Kind:      models.KindMilestone,
		Title:     fmt.Sprintf("%s reached %d%%", p.Name, mark),
		Body:      fmt.Sprintf("Current task: %s (progress %d%%)", status.CurrentTask, status.Progress),
		Priority:  models.PriorityMedium,
		ProjectID: p.ID,
		Metadata:  map[string]any{"milestone": mark},
	}

	id, err := s.Notifications.Create(ctx, n)
	if err != nil {
		// The progress update itself succeeded; a missed announcement is not
		// worth failing the request over.
		s.logger.Error("Failed to enqueue milestone notification",
			zap.String("projectId", p.ID), zap.Error(err))
		return
	}
	s.logger.Info("Milestone notification enqueued",
		zap.String("projectId", p.ID),
		zap.Int("milestone", mark),
		zap.String("notificationId", id))
}
