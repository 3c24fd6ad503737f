package orchestrator

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

type mockECSClient struct {
	runTaskFunc             func(ctx context.Context, params *ecs.RunTaskInput) (*ecs.RunTaskOutput, error)
	listTasksFunc           func(ctx context.Context, params *ecs.ListTasksInput) (*ecs.ListTasksOutput, error)
	describeTasksFunc       func(ctx context.Context, params *ecs.DescribeTasksInput) (*ecs.DescribeTasksOutput, error)
	listTaskDefinitionsFunc func(
		ctx context.Context,
		params *ecs.ListTaskDefinitionsInput,
	) (*ecs.ListTaskDefinitionsOutput, error)
}

func (m *mockECSClient) RunTask(
	ctx context.Context,
	params *ecs.RunTaskInput,
	_ ...func(*ecs.Options),
) (*ecs.RunTaskOutput, error) {
	if m.runTaskFunc != nil {
		return m.runTaskFunc(ctx, params)
	}
	return &ecs.RunTaskOutput{}, nil
}

func (m *mockECSClient) ListTasks(
	ctx context.Context,
	params *ecs.ListTasksInput,
	_ ...func(*ecs.Options),
) (*ecs.ListTasksOutput, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, params)
	}
	return &ecs.ListTasksOutput{}, nil
}

func (m *mockECSClient) DescribeTasks(
	ctx context.Context,
	params *ecs.DescribeTasksInput,
	_ ...func(*ecs.Options),
) (*ecs.DescribeTasksOutput, error) {
	if m.describeTasksFunc != nil {
		return m.describeTasksFunc(ctx, params)
	}
	return &ecs.DescribeTasksOutput{}, nil
}

func (m *mockECSClient) ListTaskDefinitions(
	ctx context.Context,
	params *ecs.ListTaskDefinitionsInput,
	_ ...func(*ecs.Options),
) (*ecs.ListTaskDefinitionsOutput, error) {
	if m.listTaskDefinitionsFunc != nil {
		return m.listTaskDefinitionsFunc(ctx, params)
	}
	return &ecs.ListTaskDefinitionsOutput{}, nil
}

type mockCloudWatchLogsClient struct {
	describeLogStreamsFunc func(
		ctx context.Context,
		params *cloudwatchlogs.DescribeLogStreamsInput,
	) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	getLogEventsFunc func(
		ctx context.Context,
		params *cloudwatchlogs.GetLogEventsInput,
	) (*cloudwatchlogs.GetLogEventsOutput, error)
}

func (m *mockCloudWatchLogsClient) DescribeLogStreams(
	ctx context.Context,
	params *cloudwatchlogs.DescribeLogStreamsInput,
	_ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	if m.describeLogStreamsFunc != nil {
		return m.describeLogStreamsFunc(ctx, params)
	}
	return &cloudwatchlogs.DescribeLogStreamsOutput{}, nil
}

func (m *mockCloudWatchLogsClient) GetLogEvents(
	ctx context.Context,
	params *cloudwatchlogs.GetLogEventsInput,
	_ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.GetLogEventsOutput, error) {
	if m.getLogEventsFunc != nil {
		return m.getLogEventsFunc(ctx, params)
	}
	return &cloudwatchlogs.GetLogEventsOutput{}, nil
}
