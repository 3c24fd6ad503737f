package orchestrator

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner launches batch job runs and answers questions about the family's tasks.
type Runner struct {
	scheduler contract.ClusterScheduler
	def       TaskDefinition
	logger    *slog.Logger
	newToken  func() string
}

// NewRunner creates a runner for the given task definition.
func NewRunner(scheduler contract.ClusterScheduler, def TaskDefinition, log *slog.Logger) *Runner {
	return &Runner{
		scheduler: scheduler,
		def:       def,
		logger:    log,
		newToken:  uuid.NewString,
	}
}

// TaskDefinition returns the definition this runner launches.
func (r *Runner) TaskDefinition() TaskDefinition {
	return r.def
}

// TaskDefinitionExists reports whether the configured family:revision is registered.
func (r *Runner) TaskDefinitionExists(ctx context.Context) (bool, error) {
	arns, err := r.scheduler.ListTaskDefinitions(ctx, r.def.Family)
	if err != nil {
		return false, fmt.Errorf("failed to list task definitions: %w", err)
	}
	return slices.ContainsFunc(arns, r.def.matches), nil
}

// Run launches one task for the run type with the container command overridden
// and returns the new task's ARN.
func (r *Runner) Run(ctx context.Context, runType constants.RunType, commands []string) (string, error) {
	if !runType.Valid() {
		return "", appErrors.ErrInvalidRunType(string(runType))
	}

	exists, err := r.TaskDefinitionExists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", appErrors.ErrTaskDefinitionNotFound(r.def.FamilyRevision())
	}

	reqLogger := logger.DeriveRequestLogger(ctx, r.logger)
	reqLogger.Info(fmt.Sprintf("executing ECS task for a '%s' run", runType),
		"context", map[string]any{
			"run_type":        string(runType),
			"cluster":         r.def.Cluster,
			"task_definition": r.def.FamilyRevision(),
			"command":         commands,
		})

	run, err := r.scheduler.RunTask(ctx, &contract.RunTaskRequest{
		Cluster:        r.def.Cluster,
		TaskDefinition: r.def.FamilyRevision(),
		LaunchType:     awsConstants.LaunchTypeFargate,
		ContainerName:  r.def.ContainerName,
		Command:        commands,
		Network:        r.def.Network,
		ClientToken:    r.newToken(),
		StartedBy:      constants.ProjectName,
	})
	if err != nil {
		return "", err
	}

	reqLogger.Info("task run started", "task_id", run.TaskID, "status", run.Status)
	return run.TaskARN, nil
}

// ExecuteReviewRun launches a review run.
func (r *Runner) ExecuteReviewRun(ctx context.Context) (string, error) {
	return r.Run(ctx, constants.ReviewRun, constants.ReviewRunCommands())
}

// ExecuteFinalRun launches a final run, which sends invoices to SAP.
func (r *Runner) ExecuteFinalRun(ctx context.Context) (string, error) {
	return r.Run(ctx, constants.FinalRun, constants.FinalRunCommands())
}

// GetTaskStatus returns the last status of a task of the family. taskID may be a
// bare ID or a full task ARN.
func (r *Runner) GetTaskStatus(ctx context.Context, taskID string) (string, error) {
	taskID = awsConstants.LastSegment(taskID)

	task, err := r.findTask(ctx, taskID)
	if err != nil {
		return "", err
	}
	if task == nil {
		return "", appErrors.ErrTaskNotFound(taskID)
	}

	logger.DeriveRequestLogger(ctx, r.logger).Info("task status", "task_id", taskID, "status", task.Status)
	return task.Status, nil
}

// TaskExists reports whether the task is still in the cluster's history.
func (r *Runner) TaskExists(ctx context.Context, taskID string) (bool, error) {
	task, err := r.findTask(ctx, awsConstants.LastSegment(taskID))
	if err != nil {
		return false, err
	}
	return task != nil, nil
}

// GetActiveTasks returns every task of the family that has not stopped, most
// recently created first. The result is nil when no task is active.
func (r *Runner) GetActiveTasks(ctx context.Context) ([]api.ActiveTask, error) {
	arns, err := r.listFamilyTaskARNs(ctx)
	if err != nil {
		return nil, err
	}
	if len(arns) == 0 {
		return nil, nil
	}

	runs, err := r.scheduler.DescribeTasks(ctx, r.def.Cluster, arns)
	if err != nil {
		return nil, fmt.Errorf("failed to describe tasks: %w", err)
	}

	var active []api.ActiveTask
	for _, run := range runs {
		if run.Status == string(awsConstants.EcsStatusStopped) {
			continue
		}
		task := api.ActiveTask{TaskID: run.TaskID}
		if run.CreatedAt != nil {
			task.CreatedAt = *run.CreatedAt
		}
		active = append(active, task)
	}

	slices.SortStableFunc(active, func(a, b api.ActiveTask) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return active, nil
}

// findTask returns the task with the given ID, or nil when it is not listed.
func (r *Runner) findTask(ctx context.Context, taskID string) (*api.TaskRun, error) {
	arns, err := r.listFamilyTaskARNs(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(arns, func(arn string) bool {
		return awsConstants.LastSegment(arn) == taskID
	})
	if idx < 0 {
		return nil, nil
	}

	runs, err := r.scheduler.DescribeTasks(ctx, r.def.Cluster, arns[idx:idx+1])
	if err != nil {
		return nil, fmt.Errorf("failed to describe task %s: %w", taskID, err)
	}
	// The task may age out between the two calls.
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// listFamilyTaskARNs lists the family's tasks under every desired status concurrently.
func (r *Runner) listFamilyTaskARNs(ctx context.Context) ([]string, error) {
	statuses := contract.AllDesiredStatuses()
	results := make([][]string, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		g.Go(func() error {
			arns, err := r.scheduler.ListTasks(gctx, r.def.Cluster, r.def.Family, status)
			if err != nil {
				return fmt.Errorf("failed to list %s tasks: %w", status, err)
			}
			results[i] = arns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var arns []string
	for _, batch := range results {
		for _, arn := range batch {
			if _, ok := seen[arn]; ok {
				continue
			}
			seen[arn] = struct{}{}
			arns = append(arns, arn)
		}
	}
	return arns, nil
}
