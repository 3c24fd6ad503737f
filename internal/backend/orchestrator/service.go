// Package orchestrator implements the task lifecycle: launching SAP invoice runs,
// monitoring them, reading their logs and reconciling both into one view.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"
)

// Launch and monitor outcomes reported to the MetricsRecorder.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
)

// MetricsRecorder receives orchestration events for instrumentation.
type MetricsRecorder interface {
	RecordLaunch(ctx context.Context, runType constants.RunType, outcome string)
	RecordStatusView(ctx context.Context, status string)
	RecordMonitor(ctx context.Context, outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordLaunch(context.Context, constants.RunType, string) {}

func (noopRecorder) RecordStatusView(context.Context, string) {}

func (noopRecorder) RecordMonitor(context.Context, string, time.Duration) {}

// Options tunes a Service.
type Options struct {
	// SummaryLogs trims completed logs to the summary section by default.
	SummaryLogs    bool
	MonitorTimeout time.Duration
	Metrics        MetricsRecorder
}

// Service composes the runner, monitor and log retriever into the operations
// used by the web app and the CLI.
type Service struct {
	runner         *Runner
	monitor        *Monitor
	logs           *LogRetriever
	summaryLogs    bool
	monitorTimeout time.Duration
	metrics        MetricsRecorder
	Logger         *slog.Logger
}

// NewService creates a new service instance.
func NewService(runner *Runner, monitor *Monitor, logs *LogRetriever, log *slog.Logger, opts Options) *Service {
	svc := &Service{
		runner:         runner,
		monitor:        monitor,
		logs:           logs,
		summaryLogs:    opts.SummaryLogs,
		monitorTimeout: opts.MonitorTimeout,
		metrics:        opts.Metrics,
		Logger:         log,
	}
	if svc.monitorTimeout <= 0 {
		svc.monitorTimeout = constants.DefaultMonitorTimeout
	}
	if svc.metrics == nil {
		svc.metrics = noopRecorder{}
	}
	return svc
}

// Runner returns the task runner.
func (s *Service) Runner() *Runner {
	return s.runner
}

// Logs returns the log retriever.
func (s *Service) Logs() *LogRetriever {
	return s.logs
}

// SummaryLogs reports whether status views default to summary logs.
func (s *Service) SummaryLogs() bool {
	return s.summaryLogs
}

// GetTaskStatusAndLogs returns what should be shown for a task right now,
// using the configured summary mode.
func (s *Service) GetTaskStatusAndLogs(ctx context.Context, taskID string) (*api.TaskStatusResponse, error) {
	return s.GetTaskStatusAndLogsWithOptions(ctx, taskID, s.summaryLogs)
}

// GetTaskStatusAndLogsWithOptions reconciles the task's cluster status with its
// log stream:
//
//   - in progress: the raw status and a loading placeholder; logs are not read
//   - stopped: COMPLETED with the task's log messages
//   - not in the cluster history but logs exist: COMPLETED with those messages
//   - neither: EXPIRED (UNKNOWN) with an explanatory message
func (s *Service) GetTaskStatusAndLogsWithOptions(
	ctx context.Context,
	taskID string,
	summary bool,
) (*api.TaskStatusResponse, error) {
	taskID = awsConstants.LastSegment(taskID)
	reqLogger := logger.DeriveRequestLogger(ctx, s.Logger)

	status, err := s.runner.GetTaskStatus(ctx, taskID)
	switch {
	case appErrors.HasCode(err, appErrors.ErrCodeTaskNotFound):
		status = constants.StatusUnknown
	case err != nil:
		return nil, err
	case awsConstants.EcsStatus(status).IsTerminal():
		status = constants.StatusCompleted
	default:
		s.metrics.RecordStatusView(ctx, status)
		return &api.TaskStatusResponse{Status: status, Logs: []string{constants.LoadingMessage}}, nil
	}

	messages, err := s.logs.GetLogMessages(ctx, taskID, summary)
	if err != nil && !appErrors.HasCode(err, appErrors.ErrCodeLogStreamNotFound) {
		return nil, err
	}

	view := &api.TaskStatusResponse{Status: constants.StatusCompleted, Logs: messages}
	if len(messages) == 0 {
		view = &api.TaskStatusResponse{
			Status: constants.StatusExpired,
			Logs:   []string{constants.LogStreamExpiredMessage},
		}
	}

	reqLogger.Debug("task status reconciled", "context", map[string]any{
		"task_id":        taskID,
		"cluster_status": status,
		"status":         view.Status,
		"log_lines":      len(view.Logs),
		"summary":        summary,
	})
	s.metrics.RecordStatusView(ctx, view.Status)
	return view, nil
}

// GetActiveTasks returns the tasks that have not stopped, most recent first.
func (s *Service) GetActiveTasks(ctx context.Context) ([]api.ActiveTask, error) {
	return s.runner.GetActiveTasks(ctx)
}

// LaunchRun starts a run of the given type unless another task is still active.
// The check is read-then-act against the cluster, so two simultaneous launches
// can both pass it.
func (s *Service) LaunchRun(ctx context.Context, runType constants.RunType) (*api.LaunchResponse, error) {
	if !runType.Valid() {
		return nil, appErrors.ErrInvalidRunType(string(runType))
	}

	active, err := s.runner.GetActiveTasks(ctx)
	if err != nil {
		s.metrics.RecordLaunch(ctx, runType, OutcomeError)
		return nil, fmt.Errorf("failed to check active tasks: %w", err)
	}
	if len(active) > 0 {
		s.metrics.RecordLaunch(ctx, runType, OutcomeConflict)
		return nil, NewActiveTaskConflictError(active)
	}

	var taskARN string
	switch runType {
	case constants.FinalRun:
		taskARN, err = s.runner.ExecuteFinalRun(ctx)
	default:
		taskARN, err = s.runner.ExecuteReviewRun(ctx)
	}
	if err != nil {
		s.metrics.RecordLaunch(ctx, runType, OutcomeError)
		return nil, err
	}

	s.metrics.RecordLaunch(ctx, runType, OutcomeSuccess)
	return &api.LaunchResponse{
		RunType: string(runType),
		TaskARN: taskARN,
		TaskID:  awsConstants.LastSegment(taskARN),
	}, nil
}

// ActiveTaskConflictError is returned by LaunchRun when tasks are still active.
// It unwraps to an ACTIVE_TASK_CONFLICT AppError.
type ActiveTaskConflictError struct {
	ActiveTasks []api.ActiveTask
	err         *appErrors.AppError
}

// NewActiveTaskConflictError creates the error for a launch blocked by active.
func NewActiveTaskConflictError(active []api.ActiveTask) *ActiveTaskConflictError {
	return &ActiveTaskConflictError{
		ActiveTasks: active,
		err:         appErrors.ErrActiveTaskConflict(len(active)),
	}
}

func (e *ActiveTaskConflictError) Error() string {
	return e.err.Error()
}

func (e *ActiveTaskConflictError) Unwrap() error {
	return e.err
}

// ActiveTasksFromError returns the tasks that blocked a launch, if err is an
// ActiveTaskConflictError.
func ActiveTasksFromError(err error) ([]api.ActiveTask, bool) {
	var conflict *ActiveTaskConflictError
	if !errors.As(err, &conflict) {
		return nil, false
	}
	return conflict.ActiveTasks, true
}

// MonitorTask blocks until the task stops. A non-positive timeout uses the configured one.
func (s *Service) MonitorTask(ctx context.Context, taskID string, timeout time.Duration) (string, error) {
	return s.watch(ctx, taskID, timeout, nil)
}

// WatchTask monitors the task, calling fn for every observed status, then returns
// the reconciled view. A task that ages out of the cluster history while being
// watched is reconciled from its logs.
func (s *Service) WatchTask(
	ctx context.Context,
	taskID string,
	timeout time.Duration,
	fn func(api.TaskStatusUpdate),
) (*api.TaskStatusResponse, error) {
	if _, err := s.watch(ctx, taskID, timeout, fn); err != nil &&
		!appErrors.HasCode(err, appErrors.ErrCodeTaskNotFound) {
		return nil, err
	}
	return s.GetTaskStatusAndLogs(ctx, taskID)
}

func (s *Service) watch(
	ctx context.Context,
	taskID string,
	timeout time.Duration,
	fn func(api.TaskStatusUpdate),
) (string, error) {
	if timeout <= 0 {
		timeout = s.monitorTimeout
	}

	start := time.Now()
	status, err := s.monitor.Watch(ctx, taskID, timeout, fn)
	switch {
	case err == nil:
		s.metrics.RecordMonitor(ctx, OutcomeSuccess, time.Since(start))
	case appErrors.HasCode(err, appErrors.ErrCodeTaskTimeoutExceeded):
		s.metrics.RecordMonitor(ctx, OutcomeTimeout, time.Since(start))
	default:
		s.metrics.RecordMonitor(ctx, OutcomeError, time.Since(start))
	}
	return status, err
}
