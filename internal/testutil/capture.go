package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogRecord is a captured log entry with its attributes flattened.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that records every entry for later assertions.
type LogCapture struct {
	mu      *sync.Mutex
	records *[]LogRecord
	attrs   []slog.Attr
}

// NewLogCapture returns a logger writing to a fresh capture at debug level.
func NewLogCapture() (*slog.Logger, *LogCapture) {
	capture := &LogCapture{mu: &sync.Mutex{}, records: &[]LogRecord{}}
	return slog.New(capture), capture
}

// Enabled implements slog.Handler.
func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range c.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	*c.records = append(*c.records, rec)
	return nil
}

// WithAttrs implements slog.Handler.
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, c.attrs...), attrs...)
	return &LogCapture{mu: c.mu, records: c.records, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns a copy of everything captured so far.
func (c *LogCapture) Records() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LogRecord(nil), *c.records...)
}

// Messages returns the captured messages in order.
func (c *LogCapture) Messages() []string {
	records := c.Records()
	messages := make([]string, 0, len(records))
	for _, r := range records {
		messages = append(messages, r.Message)
	}
	return messages
}

// AttrValues returns the value of key for every captured entry with the given message.
func (c *LogCapture) AttrValues(msg, key string) []any {
	var values []any
	for _, r := range c.Records() {
		if r.Message != msg {
			continue
		}
		if v, ok := r.Attrs[key]; ok {
			values = append(values, v)
		}
	}
	return values
}
