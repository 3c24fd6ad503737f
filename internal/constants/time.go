package constants

import "time"

// DefaultContextTimeout is the default timeout for context operations.
const DefaultContextTimeout = 10 * time.Second

// DefaultMonitorTimeout is how long a task may run before monitoring gives up.
const DefaultMonitorTimeout = 600 * time.Second

// DefaultMonitorPollInterval is the fixed cadence between task status polls.
const DefaultMonitorPollInterval = 5 * time.Second

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second

// WebSocketWriteTimeout bounds a single write on the status stream.
const WebSocketWriteTimeout = 10 * time.Second
