package testutil

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
)

// FakeScheduler is an in-memory contract.ClusterScheduler. Tasks whose status is
// STOPPED are listed under the STOPPED desired status; all others under RUNNING.
type FakeScheduler struct {
	mu sync.Mutex

	TaskDefinitionARNs []string
	Tasks              []api.TaskRun
	Launched           []contract.RunTaskRequest

	ListTaskDefinitionsErr error
	RunTaskErr             error
	ListTasksErr           error
	DescribeTasksErr       error

	listTasksCalls     int
	describeTasksCalls int
}

// ListTaskDefinitions implements contract.ClusterScheduler.
func (f *FakeScheduler) ListTaskDefinitions(_ context.Context, familyPrefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListTaskDefinitionsErr != nil {
		return nil, f.ListTaskDefinitionsErr
	}

	var arns []string
	for _, arn := range f.TaskDefinitionARNs {
		name := arn[strings.LastIndex(arn, "/")+1:]
		if strings.HasPrefix(name, familyPrefix) {
			arns = append(arns, arn)
		}
	}
	return arns, nil
}

// RunTask implements contract.ClusterScheduler. Each launch creates a PROVISIONING task.
func (f *FakeScheduler) RunTask(_ context.Context, req *contract.RunTaskRequest) (*api.TaskRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RunTaskErr != nil {
		return nil, f.RunTaskErr
	}

	f.Launched = append(f.Launched, *req)
	taskID := fmt.Sprintf("launched%03d", len(f.Launched))
	createdAt := time.Now().UTC()
	run := api.TaskRun{
		TaskARN:   TestTaskARNPrefix + taskID,
		TaskID:    taskID,
		Status:    "PROVISIONING",
		CreatedAt: &createdAt,
	}
	f.Tasks = append(f.Tasks, run)
	return &run, nil
}

// DescribeTasks implements contract.ClusterScheduler.
func (f *FakeScheduler) DescribeTasks(_ context.Context, _ string, taskARNs []string) ([]api.TaskRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeTasksCalls++
	if f.DescribeTasksErr != nil {
		return nil, f.DescribeTasksErr
	}

	var runs []api.TaskRun
	for _, arn := range taskARNs {
		for _, task := range f.Tasks {
			if task.TaskARN == arn {
				runs = append(runs, task)
			}
		}
	}
	return runs, nil
}

// ListTasks implements contract.ClusterScheduler.
func (f *FakeScheduler) ListTasks(
	_ context.Context,
	_, _ string,
	desiredStatus contract.DesiredStatus,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listTasksCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	var arns []string
	for _, task := range f.Tasks {
		stopped := task.Status == "STOPPED"
		switch desiredStatus {
		case contract.DesiredStatusStopped:
			if stopped {
				arns = append(arns, task.TaskARN)
			}
		case contract.DesiredStatusRunning:
			if !stopped {
				arns = append(arns, task.TaskARN)
			}
		case contract.DesiredStatusPending:
		}
	}
	return arns, nil
}

// SetStatus changes the status of a known task.
func (f *FakeScheduler) SetStatus(taskID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].TaskID == taskID {
			f.Tasks[i].Status = status
		}
	}
}

// LaunchCount returns the number of RunTask calls that succeeded.
func (f *FakeScheduler) LaunchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Launched)
}

// ListTasksCalls returns the number of ListTasks calls made.
func (f *FakeScheduler) ListTasksCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listTasksCalls
}

// FakeLogStore is an in-memory contract.LogStore. Pagination mimics CloudWatch:
// the forward token is repeated once the end of a stream is reached.
type FakeLogStore struct {
	mu sync.Mutex

	// Streams maps stream names to their events.
	Streams  map[string][]api.LogEvent
	PageSize int

	DescribeErr  error
	GetEventsErr error

	describeCalls  int
	getEventsCalls int
}

// NewFakeLogStore creates an empty store with a page size of 2.
func NewFakeLogStore() *FakeLogStore {
	return &FakeLogStore{Streams: map[string][]api.LogEvent{}, PageSize: 2}
}

// AddMessages appends messages to a stream, creating it if needed.
func (f *FakeLogStore) AddMessages(stream string, messages ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.Streams[stream]
	for _, m := range messages {
		events = append(events, api.LogEvent{Timestamp: int64(len(events)+1) * 1000, Message: m})
	}
	f.Streams[stream] = events
}

// DescribeLogStreams implements contract.LogStore.
func (f *FakeLogStore) DescribeLogStreams(
	_ context.Context,
	_ string,
	nextToken *string,
) (*contract.LogStreamsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeCalls++
	if f.DescribeErr != nil {
		return nil, f.DescribeErr
	}

	names := make([]string, 0, len(f.Streams))
	for name := range f.Streams {
		names = append(names, name)
	}
	slices.Sort(names)

	start := tokenIndex(nextToken)
	end := min(start+f.pageSize(), len(names))
	page := &contract.LogStreamsPage{StreamNames: names[start:end]}
	if end < len(names) {
		token := strconv.Itoa(end)
		page.NextToken = &token
	}
	return page, nil
}

// GetLogEvents implements contract.LogStore.
func (f *FakeLogStore) GetLogEvents(_ context.Context, req *contract.LogEventsRequest) (*contract.LogEventsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getEventsCalls++
	if f.GetEventsErr != nil {
		return nil, f.GetEventsErr
	}

	events, ok := f.Streams[req.LogStream]
	if !ok {
		return nil, contract.ErrLogStreamNotFound
	}

	start := min(tokenIndex(req.NextToken), len(events))
	end := min(start+f.pageSize(), len(events))
	next := "f/" + strconv.Itoa(end)
	return &contract.LogEventsPage{
		Events:           append([]api.LogEvent(nil), events[start:end]...),
		NextForwardToken: &next,
	}, nil
}

// Calls returns the number of DescribeLogStreams and GetLogEvents calls made.
func (f *FakeLogStore) Calls() (describe, getEvents int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.describeCalls, f.getEventsCalls
}

func (f *FakeLogStore) pageSize() int {
	if f.PageSize <= 0 {
		return 2
	}
	return f.PageSize
}

func tokenIndex(token *string) int {
	if token == nil {
		return 0
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(*token, "f/"))
	if err != nil {
		return 0
	}
	return idx
}
