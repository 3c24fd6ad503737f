package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/health"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsOrchestrator "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/orchestrator"
)

// ProviderDependencies groups the remote capabilities required to build a Service.
// This enables injecting fakes without touching cloud SDKs.
type ProviderDependencies struct {
	Region    string
	Scheduler contract.ClusterScheduler
	LogStore  contract.LogStore
	// Identity is optional; without it the health report omits the identity check.
	Identity health.AccountIDResolver
}

// ProviderInitializer constructs provider dependencies from configuration.
type ProviderInitializer func(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
) (*ProviderDependencies, error)

type initializeOptions struct {
	providerInitializer ProviderInitializer
	metrics             MetricsRecorder
}

// InitializeOption configures initialization behavior.
type InitializeOption func(*initializeOptions)

// WithProviderInitializer injects a custom provider initializer, enabling in-memory tests.
func WithProviderInitializer(initializer ProviderInitializer) InitializeOption {
	return func(opts *initializeOptions) {
		opts.providerInitializer = initializer
	}
}

// WithMetrics sets the recorder receiving launch, status and monitor events.
func WithMetrics(recorder MetricsRecorder) InitializeOption {
	return func(opts *initializeOptions) {
		opts.metrics = recorder
	}
}

// Components is everything Initialize builds.
type Components struct {
	Service *Service
	Health  *health.Checker
}

// Initialize builds the Service and health checker from configuration. The AWS
// provider is used unless another initializer is injected.
func Initialize(
	ctx context.Context,
	cfg *config.Config,
	baseLogger *slog.Logger,
	opts ...InitializeOption,
) (*Components, error) {
	options := initializeOptions{providerInitializer: awsProviderInitializer}
	for _, opt := range opts {
		opt(&options)
	}

	reqLogger := logger.DeriveRequestLogger(ctx, baseLogger)
	reqLogger.Debug(fmt.Sprintf("initializing %s orchestrator service", constants.ProjectName),
		"version", *constants.GetVersion(),
		"workspace", cfg.Workspace,
		"init_timeout", cfg.InitTimeout.String(),
	)

	deps, err := options.providerInitializer(ctx, cfg, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider dependencies: %w", err)
	}

	def := NewTaskDefinition(cfg)
	runner := NewRunner(deps.Scheduler, def, baseLogger)
	monitor := NewMonitor(runner, cfg.MonitorPollInterval, baseLogger)
	logs := NewLogRetriever(deps.LogStore, cfg.LogGroup, cfg.GetLogStreamPrefix(), baseLogger)

	svc := NewService(runner, monitor, logs, baseLogger, Options{
		SummaryLogs:    cfg.SummaryLogs,
		MonitorTimeout: cfg.MonitorTimeout,
		Metrics:        options.metrics,
	})

	region := deps.Region
	if region == "" {
		region = cfg.Region
	}
	checker := health.NewChecker(region, deps.Identity, runner, def.FamilyRevision(), baseLogger)

	reqLogger.Debug(fmt.Sprintf("%s orchestrator initialized successfully", constants.ProjectName))
	return &Components{Service: svc, Health: checker}, nil
}

func awsProviderInitializer(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
) (*ProviderDependencies, error) {
	awsDeps, err := awsOrchestrator.Initialize(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &ProviderDependencies{
		Region:    awsDeps.Region,
		Scheduler: awsDeps.Scheduler,
		LogStore:  awsDeps.LogStore,
		Identity:  awsDeps.Identity,
	}, nil
}
