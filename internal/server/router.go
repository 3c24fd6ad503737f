// Package server implements the web app: the chi router, its middleware and the
// handlers for launching runs and following their status.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/go-chi/chi/v5"
)

// TaskService is the orchestration surface used by the handlers.
type TaskService interface {
	GetActiveTasks(ctx context.Context) ([]api.ActiveTask, error)
	LaunchRun(ctx context.Context, runType constants.RunType) (*api.LaunchResponse, error)
	GetTaskStatusAndLogsWithOptions(ctx context.Context, taskID string, summary bool) (*api.TaskStatusResponse, error)
	SummaryLogs() bool
	WatchTask(
		ctx context.Context,
		taskID string,
		timeout time.Duration,
		fn func(api.TaskStatusUpdate),
	) (*api.TaskStatusResponse, error)
}

// Authenticator identifies the user behind a request.
type Authenticator interface {
	Authenticate(ctx context.Context, header http.Header) (*auth.User, error)
	Logout(header http.Header)
}

// HealthChecker reports the health of the app's dependencies.
type HealthChecker interface {
	Check(ctx context.Context) *api.HealthResponse
}

// HTTPMetrics records request and stream metrics.
type HTTPMetrics interface {
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	StreamOpened(ctx context.Context)
	StreamClosed(ctx context.Context)
}

// Options configures the router.
type Options struct {
	// RequestTimeout bounds page and data requests. Zero disables the timeout.
	RequestTimeout time.Duration
	// LoginDisabled serves every request as an anonymous user.
	LoginDisabled bool
	Authenticator Authenticator
	Health        HealthChecker
	Metrics       HTTPMetrics
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	// StreamEnabled mounts the status WebSocket. Lambda function URLs cannot
	// upgrade connections, so only the standalone server enables it.
	StreamEnabled bool
}

// Router serves the web app.
type Router struct {
	router *chi.Mux
	svc    TaskService
	opts   Options
	pages  *pages
	logger *slog.Logger
}

// NewRouter creates a new chi router with routes configured.
func NewRouter(svc TaskService, log *slog.Logger, opts Options) *Router {
	r := chi.NewRouter()
	router := &Router{
		router: r,
		svc:    svc,
		opts:   opts,
		pages:  mustLoadPages(),
		logger: log,
	}

	r.Use(router.requestIDMiddleware)
	r.Use(router.requestLoggingMiddleware)
	r.Use(router.metricsMiddleware)
	r.Use(router.recoveryMiddleware)

	r.Get("/healthz", router.handleHealth)
	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(router.authenticateRequestMiddleware)

		if opts.StreamEnabled {
			r.Get("/process-invoices/status/{taskID}/stream", router.handleStatusStream)
		}

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(router.requestTimeoutMiddleware(opts.RequestTimeout))
			}

			r.Get("/", router.handleIndex)
			r.Get("/logout", router.handleLogout)
			r.Route("/process-invoices", func(r chi.Router) {
				r.Get("/", router.handleProcessInvoices)
				r.Get("/run/final/confirm", router.handleConfirmFinalRun)
				r.Get("/run/{runType}", router.handleSelectRun)
				r.Get("/run/{runType}/execute", router.handleExecuteRun)
				r.Get("/status/{taskID}", router.handleStatusPage)
				r.Get("/status/{taskID}/data", router.handleStatusData)
			})
		})
	})

	r.NotFound(router.handleNotFound)

	return router
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// ChiMux returns the underlying chi router for advanced usage.
func (r *Router) ChiMux() *chi.Mux {
	return r.router
}

// Handler returns an http.Handler for the router.
func (r *Router) Handler() http.Handler {
	return r.router
}
