package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	loggerPkg "github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/observability"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// requestIDMiddleware extracts the request ID from the context (if present) or generates a random one.
// Priority: 1) Existing request ID in context, 2) Lambda request ID, 3) Generated random ID.
func (r *Router) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestID := loggerPkg.GetRequestID(req.Context())

		if requestID == "" {
			if lc, ok := lambdacontext.FromContext(req.Context()); ok && lc.AwsRequestID != "" {
				requestID = lc.AwsRequestID
			}
		}

		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := loggerPkg.WithRequestID(req.Context(), requestID)
		log := r.logger.With(constants.RequestIDLogField, requestID)
		ctx = context.WithValue(ctx, loggerContextKey, log)

		w.Header().Set(constants.RequestIDHeader, requestID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// requestLoggingMiddleware logs incoming requests and their responses.
func (r *Router) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		logger := r.GetLoggerFromContext(req.Context())
		start := time.Now()

		wrapped := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		logger.Info("processing incoming client request", "request", map[string]string{
			"method":     req.Method,
			"path":       req.URL.Path,
			"remoteAddr": req.RemoteAddr,
		})

		next.ServeHTTP(wrapped, req)

		logger.Info("response sent to client", "response", map[string]any{
			"status":   responseStatus(wrapped),
			"duration": time.Since(start).String(),
		})
	})
}

// metricsMiddleware records one observation per request, labelled by route pattern.
func (r *Router) metricsMiddleware(next http.Handler) http.Handler {
	if r.opts.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(wrapped, req)

		path := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		r.opts.Metrics.RecordHTTPRequest(req.Context(), req.Method, path, responseStatus(wrapped), time.Since(start))
	})
}

// recoveryMiddleware turns a handler panic into a 500 page and reports it.
func (r *Router) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			r.GetLoggerFromContext(req.Context()).Error("panic while handling request",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()))
			observability.ReportPanic(rec)

			r.renderError(w, req, http.StatusInternalServerError, "An unexpected error occurred.")
		}()

		next.ServeHTTP(w, req)
	})
}

// requestTimeoutMiddleware creates a context with timeout for each request.
func (r *Router) requestTimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx, cancel := context.WithTimeout(req.Context(), timeout)
			defer cancel()

			req = req.WithContext(ctx)

			next.ServeHTTP(w, req)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger := r.GetLoggerFromContext(req.Context())
				logger.Warn("request timeout exceeded", "request", map[string]any{
					"method":  req.Method,
					"path":    req.URL.Path,
					"timeout": timeout.String(),
				})
			}
		})
	}
}

// authenticateRequestMiddleware adds the authenticated user to the request context.
func (r *Router) authenticateRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.opts.LoginDisabled {
			ctx := auth.WithUser(req.Context(), auth.AnonymousUser())
			next.ServeHTTP(w, req.WithContext(ctx))
			return
		}

		logger := r.GetLoggerFromContext(req.Context())
		if r.opts.Authenticator == nil {
			logger.Error("no authenticator configured and login is enabled")
			r.renderError(w, req, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := r.opts.Authenticator.Authenticate(req.Context(), req.Header)
		if err != nil {
			logger.Debug("authentication failed", "error", err)
			r.renderError(w, req, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := auth.WithUser(req.Context(), user)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// GetLoggerFromContext returns the request-scoped logger, falling back to the router logger.
func (r *Router) GetLoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return r.logger
}

func responseStatus(w middleware.WrapResponseWriter) int {
	if status := w.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
