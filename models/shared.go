package models

import "time"

// APIResponse is the common envelope for /api/v1 responses.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK wraps a successful payload.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

// Fail wraps an error message.
func Fail(msg string) APIResponse {
	return APIResponse{Success: false, Error: msg, Timestamp: time.Now().UTC()}
}
