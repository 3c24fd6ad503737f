package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsClient "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/client"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ECSScheduler implements contract.ClusterScheduler on AWS ECS.
type ECSScheduler struct {
	client awsClient.ECSClient
	logger *slog.Logger
}

// NewECSScheduler creates a scheduler backed by the given ECS client.
func NewECSScheduler(client awsClient.ECSClient, log *slog.Logger) *ECSScheduler {
	return &ECSScheduler{client: client, logger: log}
}

// ListTaskDefinitions returns task definition ARNs under familyPrefix, newest first.
func (s *ECSScheduler) ListTaskDefinitions(ctx context.Context, familyPrefix string) ([]string, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	logArgs := []any{
		"operation", "ECS.ListTaskDefinitions",
		"family_prefix", familyPrefix,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	paginator := ecs.NewListTaskDefinitionsPaginator(s.client, &ecs.ListTaskDefinitionsInput{
		FamilyPrefix: aws.String(familyPrefix),
		Sort:         ecsTypes.SortOrderDesc,
		MaxResults:   aws.Int32(awsConstants.ECSTaskDefinitionMaxResults),
	}, func(o *ecs.ListTaskDefinitionsPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})

	var arns []string
	for page := 0; paginator.HasMorePages() && page < constants.MaxPaginationPages; page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateAWSError("ECS.ListTaskDefinitions", err)
		}
		arns = append(arns, out.TaskDefinitionArns...)
	}
	if paginator.HasMorePages() {
		reqLogger.Warn("task definition listing truncated",
			"family_prefix", familyPrefix, "max_pages", constants.MaxPaginationPages)
	}

	return arns, nil
}

// RunTask launches a single task with the container command overridden.
func (s *ECSScheduler) RunTask(ctx context.Context, req *contract.RunTaskRequest) (*api.TaskRun, error) {
	input := buildRunTaskInput(req)

	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	logArgs := []any{
		"operation", "ECS.RunTask",
		"cluster", req.Cluster,
		"task_definition", req.TaskDefinition,
		"launch_type", req.LaunchType,
		"container", req.ContainerName,
		"command", strings.Join(req.Command, " "),
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := s.client.RunTask(ctx, input)
	if err != nil {
		return nil, translateAWSError("ECS.RunTask", err)
	}

	if len(out.Tasks) == 0 {
		return nil, appErrors.ErrInternalError("no ECS task was started", failuresError(out.Failures))
	}

	run := toTaskRun(&out.Tasks[0])
	return &run, nil
}

// DescribeTasks returns the tasks for the given ARNs, batching requests at the ECS limit.
func (s *ECSScheduler) DescribeTasks(ctx context.Context, cluster string, taskARNs []string) ([]api.TaskRun, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	runs := make([]api.TaskRun, 0, len(taskARNs))

	for start := 0; start < len(taskARNs); start += awsConstants.ECSDescribeTasksMaxARNs {
		end := min(start+awsConstants.ECSDescribeTasksMaxARNs, len(taskARNs))
		batch := taskARNs[start:end]

		logArgs := []any{
			"operation", "ECS.DescribeTasks",
			"cluster", cluster,
			"task_count", len(batch),
		}
		logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
		reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

		out, err := s.client.DescribeTasks(ctx, &ecs.DescribeTasksInput{
			Cluster: aws.String(cluster),
			Tasks:   batch,
		})
		if err != nil {
			return nil, translateAWSError("ECS.DescribeTasks", err)
		}

		for i := range out.Tasks {
			runs = append(runs, toTaskRun(&out.Tasks[i]))
		}
	}

	return runs, nil
}

// ListTasks returns the ARNs of the family's tasks with the given desired status.
func (s *ECSScheduler) ListTasks(
	ctx context.Context,
	cluster, family string,
	desiredStatus contract.DesiredStatus,
) ([]string, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	logArgs := []any{
		"operation", "ECS.ListTasks",
		"cluster", cluster,
		"family", family,
		"desired_status", string(desiredStatus),
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	paginator := ecs.NewListTasksPaginator(s.client, &ecs.ListTasksInput{
		Cluster:       aws.String(cluster),
		Family:        aws.String(family),
		DesiredStatus: ecsTypes.DesiredStatus(desiredStatus),
		MaxResults:    aws.Int32(awsConstants.ECSListTasksMaxResults),
	}, func(o *ecs.ListTasksPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})

	var arns []string
	for page := 0; paginator.HasMorePages() && page < constants.MaxPaginationPages; page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateAWSError("ECS.ListTasks", err)
		}
		arns = append(arns, out.TaskArns...)
	}
	if paginator.HasMorePages() {
		reqLogger.Warn("task listing truncated",
			"family", family, "desired_status", string(desiredStatus), "max_pages", constants.MaxPaginationPages)
	}

	return arns, nil
}

func buildRunTaskInput(req *contract.RunTaskRequest) *ecs.RunTaskInput {
	vpc := req.Network.AwsvpcConfiguration
	awsVpc := &ecsTypes.AwsVpcConfiguration{
		Subnets:        vpc.Subnets,
		SecurityGroups: vpc.SecurityGroups,
	}
	if vpc.AssignPublicIP != "" {
		awsVpc.AssignPublicIp = ecsTypes.AssignPublicIp(vpc.AssignPublicIP)
	}

	launchType := req.LaunchType
	if launchType == "" {
		launchType = awsConstants.LaunchTypeFargate
	}

	input := &ecs.RunTaskInput{
		Cluster:        aws.String(req.Cluster),
		TaskDefinition: aws.String(req.TaskDefinition),
		LaunchType:     ecsTypes.LaunchType(launchType),
		Count:          aws.Int32(1),
		NetworkConfiguration: &ecsTypes.NetworkConfiguration{
			AwsvpcConfiguration: awsVpc,
		},
		Overrides: &ecsTypes.TaskOverride{
			ContainerOverrides: []ecsTypes.ContainerOverride{
				{
					Name:    aws.String(req.ContainerName),
					Command: req.Command,
				},
			},
		},
	}
	if req.ClientToken != "" {
		input.ClientToken = aws.String(req.ClientToken)
	}
	if req.StartedBy != "" {
		input.StartedBy = aws.String(req.StartedBy)
	}

	return input
}

func toTaskRun(task *ecsTypes.Task) api.TaskRun {
	arn := aws.ToString(task.TaskArn)
	return api.TaskRun{
		TaskARN:   arn,
		TaskID:    awsConstants.LastSegment(arn),
		Status:    aws.ToString(task.LastStatus),
		CreatedAt: task.CreatedAt,
		StoppedAt: task.StoppedAt,
	}
}

func failuresError(failures []ecsTypes.Failure) error {
	if len(failures) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, fmt.Sprintf("%s: %s", aws.ToString(f.Arn), aws.ToString(f.Reason)))
	}
	return fmt.Errorf("ECS reported failures: %s", strings.Join(reasons, "; "))
}
