package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/health"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	apperrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter(t *testing.T) {
	router, _ := newTestRouter(t, &mockTaskService{}, Options{})

	assert.NotNil(t, router.ChiMux())
	assert.Equal(t, router.router, router.ChiMux())
	assert.NotNil(t, router.Handler())
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    HealthChecker
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no checker configured",
			wantStatus: http.StatusOK,
			wantBody:   health.StatusOK,
		},
		{
			name: "healthy",
			checker: stubHealth{report: &api.HealthResponse{
				Status: health.StatusOK,
				Checks: []api.HealthCheck{{Name: health.CheckIdentity, OK: true}},
			}},
			wantStatus: http.StatusOK,
			wantBody:   health.StatusOK,
		},
		{
			name: "degraded",
			checker: stubHealth{report: &api.HealthResponse{
				Status: health.StatusDegraded,
				Checks: []api.HealthCheck{{Name: health.CheckTaskDefinition, OK: false, Detail: "missing"}},
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   health.StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := &mockAuthenticator{authenticateFunc: func(context.Context, http.Header) (*auth.User, error) {
				return nil, errors.New("health must not require a login")
			}}
			router, _ := newTestRouter(t, &mockTaskService{}, Options{Health: tt.checker, Authenticator: authenticator})

			rec := serve(router, http.MethodGet, "/healthz", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body api.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	t.Run("mounted when configured", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockTaskService{}, Options{MetricsHandler: metricsHandler})
		rec := serve(router, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# metrics", rec.Body.String())
	})

	t.Run("absent otherwise", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockTaskService{}, Options{})
		rec := serve(router, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	router, capture := newTestRouter(t, &mockTaskService{}, Options{})

	rec := serve(router, http.MethodGet, "/", nil)

	requestID := rec.Header().Get(constants.RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, []any{requestID}, capture.AttrValues("processing incoming client request", constants.RequestIDLogField))
	assert.Contains(t, capture.Messages(), "response sent to client")
}

func TestAuthentication(t *testing.T) {
	t.Run("authenticated user is shown", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockTaskService{}, Options{})
		rec := serve(router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Jane Doe")
		assert.Contains(t, rec.Body.String(), `href="/logout"`)
	})

	t.Run("login disabled serves anonymous user", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockTaskService{}, Options{LoginDisabled: true})
		rec := serve(router, http.MethodGet, "/process-invoices", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), auth.AnonymousName)
		assert.NotContains(t, rec.Body.String(), `href="/logout"`)
	})

	t.Run("rejected headers", func(t *testing.T) {
		authenticator := &mockAuthenticator{authenticateFunc: func(context.Context, http.Header) (*auth.User, error) {
			return nil, apperrors.ErrUnauthorized("missing access token", nil)
		}}
		router, _ := newTestRouter(t, &mockTaskService{}, Options{Authenticator: authenticator})

		page := serve(router, http.MethodGet, "/process-invoices", nil)
		assert.Equal(t, http.StatusUnauthorized, page.Code)
		assert.Contains(t, page.Header().Get(constants.ContentTypeHeader), "text/html")

		data := serve(router, http.MethodGet, "/process-invoices/status/abc/data", nil)
		assert.Equal(t, http.StatusUnauthorized, data.Code)
		assert.Equal(t, "application/json", data.Header().Get(constants.ContentTypeHeader))
	})

	t.Run("no authenticator configured", func(t *testing.T) {
		router := NewRouter(&mockTaskService{}, testutil.SilentLogger(), Options{})
		rec := serve(router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &recordingHTTPMetrics{}
	router, _ := newTestRouter(t, &mockTaskService{}, Options{Metrics: metrics})

	serve(router, http.MethodGet, "/process-invoices/status/abc123/data", nil)
	serve(router, http.MethodGet, "/process-invoices/run/draft", nil)

	assert.Equal(t, []string{"/process-invoices/status/{taskID}/data", "/process-invoices/run/{runType}"}, metrics.paths)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, metrics.codes)
}

func TestRecoveryMiddleware(t *testing.T) {
	svc := &mockTaskService{statusFunc: func(context.Context, string, bool) (*api.TaskStatusResponse, error) {
		panic("boom")
	}}
	router, capture := newTestRouter(t, svc, Options{})

	rec := serve(router, http.MethodGet, "/process-invoices/status/abc", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, capture.Messages(), "panic while handling request")
}

func TestNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &mockTaskService{}, Options{})

	rec := serve(router, http.MethodGet, "/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The requested page does not exist.")
	assert.Contains(t, rec.Body.String(), "<h1>Not found</h1>")
}
