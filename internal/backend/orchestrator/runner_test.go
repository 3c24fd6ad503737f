package orchestrator

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_TaskDefinitionExists(t *testing.T) {
	prefix := "arn:aws:ecs:us-east-1:123456789012:task-definition/"

	tests := []struct {
		name    string
		arns    []string
		listErr error
		want    bool
		wantErr bool
	}{
		{
			name: "exact revision registered",
			arns: []string{prefix + "alma-sapinvoices-test:4", prefix + "alma-sapinvoices-test:3"},
			want: true,
		},
		{
			name: "only other revisions registered",
			arns: []string{prefix + "alma-sapinvoices-test:4", prefix + "alma-sapinvoices-test:2"},
			want: false,
		},
		{
			name: "family prefix shared with another family",
			arns: []string{prefix + "alma-sapinvoices-test-old:3"},
			want: false,
		},
		{
			name: "nothing registered",
			want: false,
		},
		{
			name:    "listing fails",
			listErr: errors.New("throttled"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := &testutil.FakeScheduler{
				TaskDefinitionARNs:     tt.arns,
				ListTaskDefinitionsErr: tt.listErr,
			}
			runner := newTestRunner(scheduler)

			got, err := runner.TaskDefinitionExists(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("unrecognized run types never launch", func(t *testing.T) {
		for _, runType := range []constants.RunType{"", "draft", "REVIEW", "final "} {
			scheduler := newTestScheduler()
			runner := newTestRunner(scheduler)

			arn, err := runner.Run(ctx, runType, constants.ReviewRunCommands())

			assert.Empty(t, arn)
			testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeInvalidRunType)
			assert.Contains(t, err.Error(), "run_type='"+string(runType)+"'")
			assert.Zero(t, scheduler.LaunchCount())
		}
	})

	t.Run("missing task definition", func(t *testing.T) {
		scheduler := &testutil.FakeScheduler{}
		runner := newTestRunner(scheduler)

		_, err := runner.Run(ctx, constants.ReviewRun, constants.ReviewRunCommands())

		testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeTaskDefinitionNotFound)
		assert.Contains(t, err.Error(), "alma-sapinvoices-test:3")
		assert.Zero(t, scheduler.LaunchCount())
	})

	t.Run("launch failure propagates", func(t *testing.T) {
		scheduler := newTestScheduler()
		scheduler.RunTaskErr = appErrors.ErrServiceUnavailable("ECS.RunTask failed", nil)
		runner := newTestRunner(scheduler)

		_, err := runner.Run(ctx, constants.FinalRun, constants.FinalRunCommands())
		testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeServiceUnavailable)
	})

	t.Run("launch request", func(t *testing.T) {
		scheduler := newTestScheduler()
		runner := newTestRunner(scheduler)

		arn, err := runner.Run(ctx, constants.ReviewRun, constants.ReviewRunCommands())
		require.NoError(t, err)

		assert.Equal(t, testutil.TestTaskARNPrefix+"launched001", arn)
		require.Len(t, scheduler.Launched, 1)
		req := scheduler.Launched[0]
		def := testDefinition()
		assert.Equal(t, testCluster, req.Cluster)
		assert.Equal(t, "alma-sapinvoices-test:3", req.TaskDefinition)
		assert.Equal(t, "FARGATE", req.LaunchType)
		assert.Equal(t, def.ContainerName, req.ContainerName)
		assert.Equal(t, def.Network, req.Network)
		assert.Equal(t, constants.ProjectName, req.StartedBy)
		assert.NotEmpty(t, req.ClientToken)
	})

	t.Run("logs the run type before launching", func(t *testing.T) {
		log, capture := testutil.NewLogCapture()
		runner := NewRunner(newTestScheduler(), testDefinition(), log)

		_, err := runner.Run(ctx, constants.FinalRun, constants.FinalRunCommands())
		require.NoError(t, err)

		messages := capture.Messages()
		idx := slices.Index(messages, "executing ECS task for a 'final' run")
		require.GreaterOrEqual(t, idx, 0, "messages: %v", messages)
		assert.Less(t, idx, slices.Index(messages, "task run started"))
	})
}

func TestRunner_ReviewAndFinalCommands(t *testing.T) {
	ctx := context.Background()
	scheduler := newTestScheduler()
	runner := newTestRunner(scheduler)

	_, err := runner.ExecuteReviewRun(ctx)
	require.NoError(t, err)
	_, err = runner.ExecuteFinalRun(ctx)
	require.NoError(t, err)

	require.Len(t, scheduler.Launched, 2)
	review := scheduler.Launched[0]
	final := scheduler.Launched[1]

	assert.Equal(t, []string{"--real"}, review.Command)
	assert.Equal(t, []string{"--real", "--final"}, final.Command)
	assert.NotContains(t, review.Command, constants.FinalRunFlag)
	for _, flag := range review.Command {
		assert.Contains(t, final.Command, flag)
	}
	assert.NotEqual(t, review.ClientToken, final.ClientToken)
}

func TestRunner_GetTaskStatus(t *testing.T) {
	ctx := context.Background()
	running := testutil.NewTaskRunBuilder("abc123").WithStatus("RUNNING").Build()
	stopped := testutil.NewTaskRunBuilder("def456").Stopped().Build()

	t.Run("running task", func(t *testing.T) {
		log, capture := testutil.NewLogCapture()
		runner := NewRunner(newTestScheduler(running, stopped), testDefinition(), log)

		status, err := runner.GetTaskStatus(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "RUNNING", status)
		assert.Equal(t, []any{"RUNNING"}, capture.AttrValues("task status", "status"))
	})

	t.Run("stopped task by ARN", func(t *testing.T) {
		runner := newTestRunner(newTestScheduler(running, stopped))

		status, err := runner.GetTaskStatus(ctx, stopped.TaskARN)
		require.NoError(t, err)
		assert.Equal(t, "STOPPED", status)
	})

	t.Run("unknown task", func(t *testing.T) {
		runner := newTestRunner(newTestScheduler(running))

		_, err := runner.GetTaskStatus(ctx, "zzz999")
		testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeTaskNotFound)
		assert.Equal(t, "No task found for task id 'zzz999'.", appErrors.GetErrorMessage(err))
	})

	t.Run("lists every desired status", func(t *testing.T) {
		scheduler := newTestScheduler(running)
		runner := newTestRunner(scheduler)

		_, err := runner.GetTaskStatus(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, 3, scheduler.ListTasksCalls())
	})

	t.Run("listing error is not a missing task", func(t *testing.T) {
		scheduler := newTestScheduler(running)
		scheduler.ListTasksErr = appErrors.ErrServiceUnavailable("ECS.ListTasks failed", nil)
		runner := newTestRunner(scheduler)

		_, err := runner.GetTaskStatus(ctx, "abc123")
		require.Error(t, err)
		assert.False(t, appErrors.HasCode(err, appErrors.ErrCodeTaskNotFound))
		testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeServiceUnavailable)
	})
}

func TestRunner_TaskExists(t *testing.T) {
	ctx := context.Background()
	runner := newTestRunner(newTestScheduler(testutil.NewTaskRunBuilder("abc123").Build()))

	exists, err := runner.TaskExists(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = runner.TaskExists(ctx, "zzz999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunner_GetActiveTasks(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	t.Run("most recent first", func(t *testing.T) {
		scheduler := newTestScheduler(
			testutil.NewTaskRunBuilder("task-2").WithCreatedAt(t2).WithStatus("RUNNING").Build(),
			testutil.NewTaskRunBuilder("task-1").WithCreatedAt(t1).WithStatus("PENDING").Build(),
			testutil.NewTaskRunBuilder("task-old").WithCreatedAt(t3.Add(time.Hour)).Stopped().Build(),
			testutil.NewTaskRunBuilder("task-3").WithCreatedAt(t3).WithStatus("PROVISIONING").Build(),
		)
		runner := newTestRunner(scheduler)

		active, err := runner.GetActiveTasks(ctx)
		require.NoError(t, err)

		require.Len(t, active, 3)
		assert.Equal(t, "task-3", active[0].TaskID)
		assert.Equal(t, t3, active[0].CreatedAt)
		assert.Equal(t, "task-2", active[1].TaskID)
		assert.Equal(t, "task-1", active[2].TaskID)
	})

	t.Run("none active", func(t *testing.T) {
		runner := newTestRunner(newTestScheduler(testutil.NewTaskRunBuilder("done").Stopped().Build()))

		active, err := runner.GetActiveTasks(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("no tasks at all", func(t *testing.T) {
		runner := newTestRunner(newTestScheduler())

		active, err := runner.GetActiveTasks(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("describe failure is an error", func(t *testing.T) {
		scheduler := newTestScheduler(testutil.NewTaskRunBuilder("task-1").Build())
		scheduler.DescribeTasksErr = errors.New("boom")
		runner := newTestRunner(scheduler)

		active, err := runner.GetActiveTasks(ctx)
		require.Error(t, err)
		assert.Nil(t, active)
	})
}
