// Package lambdaapi provides the AWS Lambda entry point for the web app,
// adapting the HTTP router to Lambda invocations through algnhsa.
package lambdaapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"

	"github.com/akrylysov/algnhsa"
	"github.com/aws/aws-lambda-go/lambda"
)

// Handler is a lambda.Handler serving HTTP requests from function URL, API
// Gateway and load balancer events.
type Handler struct {
	inner  lambda.Handler
	logger *slog.Logger
}

// NewHandler wraps h for Lambda. The request type is detected from each payload.
func NewHandler(h http.Handler, log *slog.Logger) *Handler {
	return &Handler{
		inner:  algnhsa.New(h, nil),
		logger: log,
	}
}

// Invoke implements lambda.Handler. The raw event is logged at debug level.
func (h *Handler) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	logger.DeriveRequestLogger(ctx, h.logger).Debug("lambda invocation received",
		"event_bytes", len(payload),
		"event", string(payload))

	return h.inner.Invoke(ctx, payload)
}
