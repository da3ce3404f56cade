package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"notifyrelay/utils"
)

// ProjectStatus tracks the lifecycle of an automation project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Project is an opaque unit of backend work that notifications may reference.
// The relay stores it for the read-side dashboard; it enforces no referential
// integrity between notifications and projects.
type Project struct {
	ID                  string         `bson:"id" json:"id"`
	Name                string         `bson:"name" json:"name"`
	Description         string         `bson:"description,omitempty" json:"description,omitempty"`
	Status              ProjectStatus  `bson:"status" json:"status"`
	CurrentTask         string         `bson:"currentTask,omitempty" json:"current_task,omitempty"`
	Progress            int            `bson:"progress" json:"progress"`
	EstimatedCompletion *time.Time     `bson:"estimatedCompletion,omitempty" json:"estimated_completion,omitempty"`
	CreatedAt           time.Time      `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time      `bson:"updatedAt" json:"updated_at"`
	Metadata            map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Validate checks the creation-time constraints on a project record.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: project name is required", utils.ErrValidation)
	}
	if utf8.RuneCountInString(p.Name) > utils.MaxProjectNameLength {
		return fmt.Errorf("%w: project name exceeds %d characters", utils.ErrValidation, utils.MaxProjectNameLength)
	}
	return nil
}

// WorkStatus is a backend progress report for a project.
type WorkStatus struct {
	ProjectID           string         `json:"project_id"`
	CurrentTask         string         `json:"current_task"`
	Progress            int            `json:"progress"`
	EstimatedCompletion *time.Time     `json:"estimated_completion,omitempty"`
	Details             map[string]any `json:"details,omitempty"`
}

// Validate checks a work-status report before it touches the store.
func (w *WorkStatus) Validate() error {
	if w.ProjectID == "" {
		return fmt.Errorf("%w: project_id is required", utils.ErrValidation)
	}
	if w.CurrentTask == "" {
		return fmt.Errorf("%w: current_task is required", utils.ErrValidation)
	}
	if utf8.RuneCountInString(w.CurrentTask) > utils.MaxTaskLength {
		return fmt.Errorf("%w: current_task exceeds %d characters", utils.ErrValidation, utils.MaxTaskLength)
	}
	if w.Progress < 0 || w.Progress > 100 {
		return fmt.Errorf("%w: progress must be between 0 and 100", utils.ErrValidation)
	}
	return nil
}
