package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"
)

// TaskStatusGetter reports the current lifecycle status of a task.
type TaskStatusGetter interface {
	GetTaskStatus(ctx context.Context, taskID string) (string, error)
}

// Monitor polls a task at a fixed interval until it stops or a deadline passes.
type Monitor struct {
	tasks    TaskStatusGetter
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewMonitor creates a monitor. A non-positive interval falls back to the default.
func NewMonitor(tasks TaskStatusGetter, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = constants.DefaultMonitorPollInterval
	}
	return &Monitor{
		tasks:    tasks,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// MonitorTask blocks until the task reaches STOPPED and returns that status.
// It fails with TASK_TIMEOUT_EXCEEDED once more than timeout has elapsed without
// observing STOPPED.
func (m *Monitor) MonitorTask(ctx context.Context, taskID string, timeout time.Duration) (string, error) {
	return m.Watch(ctx, taskID, timeout, nil)
}

// Watch is MonitorTask with a callback invoked for every observed status.
func (m *Monitor) Watch(
	ctx context.Context,
	taskID string,
	timeout time.Duration,
	fn func(api.TaskStatusUpdate),
) (string, error) {
	if timeout <= 0 {
		timeout = constants.DefaultMonitorTimeout
	}
	taskID = awsConstants.LastSegment(taskID)
	reqLogger := logger.DeriveRequestLogger(ctx, m.logger).With("task_id", taskID)
	start := m.now()

	for {
		status, err := m.tasks.GetTaskStatus(ctx, taskID)
		if err != nil {
			return "", err
		}

		done := awsConstants.EcsStatus(status).IsTerminal()
		reqLogger.Info("task status observed", "status", status)
		if fn != nil {
			fn(api.TaskStatusUpdate{
				TaskID:     taskID,
				Status:     status,
				ObservedAt: m.now().UTC(),
				Done:       done,
			})
		}

		if done {
			reqLogger.Info("task run has completed", "elapsed", m.now().Sub(start).String())
			return status, nil
		}

		if m.now().Sub(start) > timeout {
			reqLogger.Warn("task monitor timed out", "timeout", timeout.String(), "last_status", status)
			return "", appErrors.ErrTaskTimeoutExceeded(timeout)
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
