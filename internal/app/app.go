// Package app assembles the web app: observability, the orchestration service,
// authentication and the HTTP router, built from one configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/health"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/orchestrator"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/observability"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/server"
)

type options struct {
	stream           bool
	keyFetcher       auth.KeyFetcher
	orchestratorOpts []orchestrator.InitializeOption
}

// Option configures Initialize.
type Option func(*options)

// WithStream enables the status WebSocket.
func WithStream(enabled bool) Option {
	return func(o *options) {
		o.stream = enabled
	}
}

// WithKeyFetcher replaces the ALB public key endpoint client.
func WithKeyFetcher(fetcher auth.KeyFetcher) Option {
	return func(o *options) {
		o.keyFetcher = fetcher
	}
}

// WithOrchestratorOptions forwards options to orchestrator.Initialize.
func WithOrchestratorOptions(opts ...orchestrator.InitializeOption) Option {
	return func(o *options) {
		o.orchestratorOpts = append(o.orchestratorOpts, opts...)
	}
}

// App is the assembled web app.
type App struct {
	Service *orchestrator.Service
	Health  *health.Checker
	Metrics *observability.Metrics
	Router  *server.Router

	logger      *slog.Logger
	flushSentry func()
}

// Initialize builds the web app from configuration.
func Initialize(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Workspace, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	metrics, metricsHandler, err := observability.NewMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	orchestratorOpts := append([]orchestrator.InitializeOption{orchestrator.WithMetrics(metrics)}, o.orchestratorOpts...)
	components, err := orchestrator.Initialize(ctx, cfg, log, orchestratorOpts...)
	if err != nil {
		_ = metrics.Shutdown(ctx)
		return nil, err
	}

	var authenticator server.Authenticator
	if cfg.LoginDisabled {
		log.Warn("login is disabled, every request is served as an anonymous user")
	} else {
		fetcher := o.keyFetcher
		if fetcher == nil {
			fetcher = auth.NewHTTPKeyFetcher(cfg.GetALBPublicKeyEndpoint(), nil)
		}
		authenticator = auth.NewALBAuthenticator(fetcher, log)
	}

	router := server.NewRouter(components.Service, log, server.Options{
		RequestTimeout: cfg.RequestTimeout,
		LoginDisabled:  cfg.LoginDisabled,
		Authenticator:  authenticator,
		Health:         components.Health,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		StreamEnabled:  o.stream,
	})

	return &App{
		Service:     components.Service,
		Health:      components.Health,
		Metrics:     metrics,
		Router:      router,
		logger:      log,
		flushSentry: flushSentry,
	}, nil
}

// Handler returns the HTTP handler serving the web app.
func (a *App) Handler() http.Handler {
	return a.Router.Handler()
}

// Shutdown flushes buffered error reports and stops the meter provider.
func (a *App) Shutdown(ctx context.Context) error {
	a.flushSentry()
	if err := a.Metrics.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down metrics: %w", err)
	}
	a.logger.Debug("app shut down")
	return nil
}
