package api

// LogEvent represents a single log event.
type LogEvent struct {
	Timestamp int64  `json:"timestamp"` // Unix timestamp in milliseconds
	Message   string `json:"message"`
}
