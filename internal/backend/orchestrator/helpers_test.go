package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/testutil"
)

const (
	testCluster      = "alma-sapinvoices-test"
	testFamily       = "alma-sapinvoices-test"
	testLogGroup     = "alma-sapinvoices-test"
	testStreamPrefix = "sapinvoices/alma-sapinvoices-test/"
	testTaskDefARN   = "arn:aws:ecs:us-east-1:123456789012:task-definition/alma-sapinvoices-test:3"
)

func testDefinition() TaskDefinition {
	return TaskDefinition{
		Cluster:       testCluster,
		Definition:    "alma-sapinvoices-test:3",
		Family:        testFamily,
		Revision:      "3",
		ContainerName: "alma-sapinvoices-test",
		Network: api.NetworkConfiguration{
			AwsvpcConfiguration: api.AwsvpcConfiguration{
				Subnets:        []string{"subnet-1", "subnet-2"},
				SecurityGroups: []string{"sg-1"},
			},
		},
	}
}

func newTestScheduler(tasks ...api.TaskRun) *testutil.FakeScheduler {
	return &testutil.FakeScheduler{
		TaskDefinitionARNs: []string{testTaskDefARN},
		Tasks:              tasks,
	}
}

func newTestRunner(scheduler contract.ClusterScheduler) *Runner {
	return NewRunner(scheduler, testDefinition(), testutil.SilentLogger())
}

func newTestLogRetriever(store contract.LogStore) *LogRetriever {
	return NewLogRetriever(store, testLogGroup, testStreamPrefix, testutil.SilentLogger())
}

func newTestService(
	scheduler contract.ClusterScheduler,
	store contract.LogStore,
	opts Options,
) *Service {
	runner := newTestRunner(scheduler)
	monitor := NewMonitor(runner, time.Millisecond, testutil.SilentLogger())
	return NewService(runner, monitor, newTestLogRetriever(store), testutil.SilentLogger(), opts)
}

// mockLogStore implements contract.LogStore with function fields.
type mockLogStore struct {
	describeLogStreamsFunc func(ctx context.Context, logGroup string, nextToken *string) (*contract.LogStreamsPage, error)
	getLogEventsFunc       func(ctx context.Context, req *contract.LogEventsRequest) (*contract.LogEventsPage, error)
}

func (m *mockLogStore) DescribeLogStreams(
	ctx context.Context,
	logGroup string,
	nextToken *string,
) (*contract.LogStreamsPage, error) {
	if m.describeLogStreamsFunc != nil {
		return m.describeLogStreamsFunc(ctx, logGroup, nextToken)
	}
	return &contract.LogStreamsPage{}, nil
}

func (m *mockLogStore) GetLogEvents(ctx context.Context, req *contract.LogEventsRequest) (*contract.LogEventsPage, error) {
	if m.getLogEventsFunc != nil {
		return m.getLogEventsFunc(ctx, req)
	}
	return &contract.LogEventsPage{}, nil
}

type launchRecord struct {
	runType constants.RunType
	outcome string
}

// recordingMetrics captures every event passed to a MetricsRecorder.
type recordingMetrics struct {
	mu       sync.Mutex
	launches []launchRecord
	views    []string
	monitors []string
}

func (r *recordingMetrics) RecordLaunch(_ context.Context, runType constants.RunType, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, launchRecord{runType: runType, outcome: outcome})
}

func (r *recordingMetrics) RecordStatusView(_ context.Context, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, status)
}

func (r *recordingMetrics) RecordMonitor(_ context.Context, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.monitors = append(r.monitors, outcome)
}

func ptr[T any](v T) *T {
	return &v
}
