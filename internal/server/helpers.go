package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	apperrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/observability"

	"github.com/go-chi/chi/v5"
)

// extractErrorInfo extracts statusCode, errorCode, and errorDetails from an error.
func extractErrorInfo(err error) (statusCode int, errorCode, errorDetails string) {
	return apperrors.GetStatusCode(err),
		apperrors.GetErrorCode(err),
		apperrors.GetErrorDetails(err)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(constants.ContentTypeHeader, "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message, details string) {
	writeErrorResponseWithCode(w, statusCode, "", message, details)
}

func writeErrorResponseWithCode(w http.ResponseWriter, statusCode int, errorCode, message, details string) {
	writeJSON(w, statusCode, api.ErrorResponse{
		Error:   message,
		Code:    errorCode,
		Details: details,
	})
}

// getRequiredURLParam extracts and validates a required URL parameter.
// If the parameter is missing or empty, writes a bad request error response and returns "", false.
func (r *Router) getRequiredURLParam(w http.ResponseWriter, req *http.Request, name string) (string, bool) {
	param := strings.TrimSpace(chi.URLParam(req, name))
	if param == "" {
		r.renderError(w, req, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return param, true
}

// handleAndLogError logs a service failure and writes the matching response:
// a JSON error for data endpoints and an error page otherwise.
// Server errors are also reported to Sentry.
func (r *Router) handleAndLogError(w http.ResponseWriter, req *http.Request, err error, operationName string) {
	logger := r.GetLoggerFromContext(req.Context())
	statusCode, errorCode, errorDetails := extractErrorInfo(err)

	logger.Error(
		"operation failed",
		"operation", operationName,
		"error", err,
		"status_code", statusCode,
		"error_code", errorCode,
	)

	if statusCode >= http.StatusInternalServerError {
		observability.ReportError(err)
	}

	if wantsJSON(req) {
		writeErrorResponseWithCode(w, statusCode, errorCode, "failed to "+operationName, errorDetails)
		return
	}
	r.render(w, req, statusCode, errorPage(statusCode), pageData{
		Title:      http.StatusText(statusCode),
		StatusCode: statusCode,
		Message:    apperrors.GetErrorMessage(err),
	})
}
