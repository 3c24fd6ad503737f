package server

import (
	"net/http"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/health"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
)

// handleHealth reports the dependency checks. A degraded report is served as 503.
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if r.opts.Health == nil {
		writeJSON(w, http.StatusOK, api.HealthResponse{
			Status:  health.StatusOK,
			Version: *constants.GetVersion(),
			Checks:  []api.HealthCheck{},
		})
		return
	}

	report := r.opts.Health.Check(req.Context())
	statusCode := http.StatusOK
	if report.Status != health.StatusOK {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, report)
}
