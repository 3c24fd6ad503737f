package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/orchestrator"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"
)

// mockTaskService is a manual mock for testing
type mockTaskService struct {
	getActiveTasksFunc func(ctx context.Context) ([]api.ActiveTask, error)
	launchRunFunc      func(ctx context.Context, runType constants.RunType) (*api.LaunchResponse, error)
	statusFunc         func(ctx context.Context, taskID string, summary bool) (*api.TaskStatusResponse, error)
	watchFunc          func(
		ctx context.Context,
		taskID string,
		timeout time.Duration,
		fn func(api.TaskStatusUpdate),
	) (*api.TaskStatusResponse, error)
	summaryLogs bool

	launches []constants.RunType
}

func (m *mockTaskService) GetActiveTasks(ctx context.Context) ([]api.ActiveTask, error) {
	if m.getActiveTasksFunc != nil {
		return m.getActiveTasksFunc(ctx)
	}
	return nil, nil
}

// LaunchRun applies the same active task guard as the orchestration service.
func (m *mockTaskService) LaunchRun(ctx context.Context, runType constants.RunType) (*api.LaunchResponse, error) {
	active, err := m.GetActiveTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active tasks: %w", err)
	}
	if len(active) > 0 {
		return nil, orchestrator.NewActiveTaskConflictError(active)
	}

	m.launches = append(m.launches, runType)
	if m.launchRunFunc != nil {
		return m.launchRunFunc(ctx, runType)
	}
	return &api.LaunchResponse{
		RunType: string(runType),
		TaskARN: "arn:aws:ecs:us-east-1:123456789012:task/alma-sapinvoices-test/abc123",
		TaskID:  "abc123",
	}, nil
}

func (m *mockTaskService) GetTaskStatusAndLogsWithOptions(
	ctx context.Context, taskID string, summary bool,
) (*api.TaskStatusResponse, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, taskID, summary)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) WatchTask(
	ctx context.Context,
	taskID string,
	timeout time.Duration,
	fn func(api.TaskStatusUpdate),
) (*api.TaskStatusResponse, error) {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, taskID, timeout, fn)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) SummaryLogs() bool {
	return m.summaryLogs
}

type call struct {
	method string
	args   []any
}

// mockOutputInterface records every call; formatted messages are stored already rendered.
type mockOutputInterface struct {
	calls []call
}

func (m *mockOutputInterface) record(method string, args ...any) {
	m.calls = append(m.calls, call{method: method, args: args})
}

func (m *mockOutputInterface) Infof(format string, a ...any) {
	m.record("Infof", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Errorf(format string, a ...any) {
	m.record("Errorf", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Successf(format string, a ...any) {
	m.record("Successf", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Warningf(format string, a ...any) {
	m.record("Warningf", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Table(headers []string, rows [][]string) {
	m.record("Table", headers, rows)
}
func (m *mockOutputInterface) Blank() {
	m.record("Blank")
}
func (m *mockOutputInterface) Bold(text string) string {
	return text
}
func (m *mockOutputInterface) KeyValue(key, value string) {
	m.record("KeyValue", key, value)
}
func (m *mockOutputInterface) Lines(lines []string) {
	m.record("Lines", lines)
}
func (m *mockOutputInterface) StatusBadge(status string) string {
	return status
}
func (m *mockOutputInterface) Encode(format output.Format, v any) error {
	m.record("Encode", format, v)
	return nil
}

// messages returns the rendered text of every call to method.
func (m *mockOutputInterface) messages(method string) []string {
	var out []string
	for _, c := range m.calls {
		if c.method == method && len(c.args) > 0 {
			if s, ok := c.args[0].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// keyValues returns the KeyValue calls as a map.
func (m *mockOutputInterface) keyValues() map[string]string {
	out := map[string]string{}
	for _, c := range m.calls {
		if c.method == "KeyValue" {
			out[c.args[0].(string)] = c.args[1].(string)
		}
	}
	return out
}

func (m *mockOutputInterface) find(method string) (call, bool) {
	for _, c := range m.calls {
		if c.method == method {
			return c, true
		}
	}
	return call{}, false
}
