// Package api defines the API types and structures used across sapinvoices-ui.
// It contains the task, log and response structures shared by the backend,
// the HTTP server and the CLI.
package api

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the response to a health check request
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Region    string        `json:"region,omitempty"`
	AccountID string        `json:"account_id,omitempty"`
	Checks    []HealthCheck `json:"checks"`
}

// HealthCheck is the outcome of a single named health check.
type HealthCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}
