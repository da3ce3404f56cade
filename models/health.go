package models

import "time"

// SystemHealth is the aggregate health snapshot served by /health.
type SystemHealth struct {
	ServerStatus         string    `json:"server_status"`
	NotifierStatus       string    `json:"notifier_status"`
	DatabaseStatus       string    `json:"database_status"`
	PendingNotifications int64     `json:"pending_notifications"`
	ActiveProjects       int64     `json:"active_projects"`
	LastCheck            time.Time `json:"last_check"`
}
