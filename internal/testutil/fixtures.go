// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
)

// TestTaskARNPrefix is the ARN prefix used by task fixtures.
const TestTaskARNPrefix = "arn:aws:ecs:us-east-1:123456789012:task/alma-sapinvoices-test/"

// TaskRunBuilder provides a fluent interface for building test task runs.
type TaskRunBuilder struct {
	run *api.TaskRun
}

// NewTaskRunBuilder creates a new TaskRunBuilder for the given task ID, RUNNING by default.
func NewTaskRunBuilder(taskID string) *TaskRunBuilder {
	createdAt := time.Date(2024, 7, 2, 13, 0, 0, 0, time.UTC)
	return &TaskRunBuilder{
		run: &api.TaskRun{
			TaskARN:   TestTaskARNPrefix + taskID,
			TaskID:    taskID,
			Status:    "RUNNING",
			CreatedAt: &createdAt,
		},
	}
}

// WithStatus sets the task's last status.
func (b *TaskRunBuilder) WithStatus(status string) *TaskRunBuilder {
	b.run.Status = status
	return b
}

// WithCreatedAt sets the task's creation time.
func (b *TaskRunBuilder) WithCreatedAt(t time.Time) *TaskRunBuilder {
	b.run.CreatedAt = &t
	return b
}

// Stopped marks the task as stopped one minute after creation.
func (b *TaskRunBuilder) Stopped() *TaskRunBuilder {
	b.run.Status = "STOPPED"
	stoppedAt := time.Date(2024, 7, 2, 13, 1, 0, 0, time.UTC)
	if b.run.CreatedAt != nil {
		stoppedAt = b.run.CreatedAt.Add(time.Minute)
	}
	b.run.StoppedAt = &stoppedAt
	return b
}

// Build returns the constructed TaskRun.
func (b *TaskRunBuilder) Build() api.TaskRun {
	return *b.run
}

// TestContext creates a test context with a reasonable timeout.
// Note: The cancel function is intentionally not returned since test contexts
// are expected to be short-lived and will be cleaned up when the test completes.
func TestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), constants.TestContextTimeout)
	_ = cancel
	return ctx
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}
