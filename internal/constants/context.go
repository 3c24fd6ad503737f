package constants

// StartTimeCtxKeyType is the type for start time context keys
type StartTimeCtxKeyType string

// StartTimeCtxKey is the key used to store the start time in context
const StartTimeCtxKey StartTimeCtxKeyType = "startTime"

// UserCtxKeyType is the type for the authenticated user context key
type UserCtxKeyType string

// UserCtxKey is the key used to store the authenticated user in context
const UserCtxKey UserCtxKeyType = "user"

// RequestIDLogField is the field name used for request ID in log entries
const RequestIDLogField = "request_id"

// ConfigCtxKeyType is the type for config context keys
type ConfigCtxKeyType string

// ConfigCtxKey is the key used to store the loaded configuration in the CLI command context
const ConfigCtxKey ConfigCtxKeyType = "config"
