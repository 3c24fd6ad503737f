// Package contract defines the remote capabilities the backend depends on.
// Provider packages implement them; the orchestrator consumes them.
package contract

import (
	"context"
	"errors"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
)

// ErrLogStreamNotFound is returned by a LogStore when the requested stream does not exist.
var ErrLogStreamNotFound = errors.New("log stream not found")

// DesiredStatus filters tasks by the state the scheduler intends them to reach.
type DesiredStatus string

// Desired statuses accepted by ListTasks.
const (
	DesiredStatusRunning DesiredStatus = "RUNNING"
	DesiredStatusPending DesiredStatus = "PENDING"
	DesiredStatusStopped DesiredStatus = "STOPPED"
)

// AllDesiredStatuses returns every desired status a task can be listed under.
func AllDesiredStatuses() []DesiredStatus {
	return []DesiredStatus{DesiredStatusRunning, DesiredStatusPending, DesiredStatusStopped}
}

// RunTaskRequest describes a single task launch.
type RunTaskRequest struct {
	Cluster        string
	TaskDefinition string
	LaunchType     string
	ContainerName  string
	Command        []string
	Network        api.NetworkConfiguration
	// ClientToken makes retries of the same launch idempotent.
	ClientToken string
	StartedBy   string
}

// ClusterScheduler launches and inspects container tasks on a cluster.
type ClusterScheduler interface {
	// ListTaskDefinitions returns the ARNs of all task definitions whose family starts with familyPrefix.
	ListTaskDefinitions(ctx context.Context, familyPrefix string) ([]string, error)
	// RunTask launches one task and returns it as reported by the scheduler.
	RunTask(ctx context.Context, req *RunTaskRequest) (*api.TaskRun, error)
	// DescribeTasks returns the tasks identified by taskARNs. Unknown ARNs are omitted.
	DescribeTasks(ctx context.Context, cluster string, taskARNs []string) ([]api.TaskRun, error)
	// ListTasks returns the ARNs of the family's tasks with the given desired status.
	ListTasks(ctx context.Context, cluster, family string, desiredStatus DesiredStatus) ([]string, error)
}

// LogStreamsPage is one page of log stream names.
type LogStreamsPage struct {
	StreamNames []string
	// NextToken is nil when no further pages exist.
	NextToken *string
}

// LogEventsRequest selects one page of events from a log stream.
type LogEventsRequest struct {
	LogGroup      string
	LogStream     string
	StartFromHead bool
	NextToken     *string
}

// LogEventsPage is one page of log events.
type LogEventsPage struct {
	Events []api.LogEvent
	// NextForwardToken repeats the request token once the end of the stream is reached.
	NextForwardToken *string
}

// LogStore reads log streams and events from a log group.
type LogStore interface {
	DescribeLogStreams(ctx context.Context, logGroup string, nextToken *string) (*LogStreamsPage, error)
	// GetLogEvents returns ErrLogStreamNotFound when the stream does not exist.
	GetLogEvents(ctx context.Context, req *LogEventsRequest) (*LogEventsPage, error)
}
