package orchestrator

import (
	"context"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	awsConfig "github.com/MITLibraries/alma-sapinvoices-ui/internal/config/aws"
	awsClient "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/client"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/identity"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Dependencies bundles the AWS-backed capabilities used by the backend.
type Dependencies struct {
	Region    string
	Scheduler *ECSScheduler
	LogStore  *CloudWatchLogStore
	Identity  *identity.Resolver
}

// Initialize loads the AWS SDK configuration and builds the ECS, CloudWatch Logs
// and STS backed dependencies.
func Initialize(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, error) {
	sdkCfg, err := awsConfig.LoadSDKConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	ecsClient := awsClient.NewECSClientAdapter(ecs.NewFromConfig(sdkCfg))
	logsClient := awsClient.NewCloudWatchLogsClientAdapter(cloudwatchlogs.NewFromConfig(sdkCfg))
	stsClient := sts.NewFromConfig(sdkCfg)

	log.Debug("AWS backend configured", "context", map[string]string{
		"region":          sdkCfg.Region,
		"cluster":         cfg.ECSCluster,
		"task_definition": cfg.TaskDefinition,
		"log_group":       cfg.LogGroup,
	})

	return &Dependencies{
		Region:    sdkCfg.Region,
		Scheduler: NewECSScheduler(ecsClient, log),
		LogStore:  NewCloudWatchLogStore(logsClient, log),
		Identity:  identity.NewResolver(stsClient, log),
	}, nil
}
