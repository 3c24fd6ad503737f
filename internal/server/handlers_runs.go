package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/orchestrator"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
)

const confirmFinalRunPath = "process-invoices/run/final/confirm"

func statusPath(taskID string) string {
	return "/process-invoices/status/" + taskID
}

func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	r.render(w, req, http.StatusOK, pageIndex, pageData{})
}

func (r *Router) handleProcessInvoices(w http.ResponseWriter, req *http.Request) {
	r.render(w, req, http.StatusOK, pageProcessInvoices, pageData{
		Title:    "Process invoices",
		RunTypes: constants.RunTypes(),
	})
}

// handleSelectRun sends a review run straight to execution and a final run to
// its confirmation page.
func (r *Router) handleSelectRun(w http.ResponseWriter, req *http.Request) {
	runType, ok := r.getRequiredURLParam(w, req, "runType")
	if !ok {
		return
	}

	switch constants.RunType(runType) {
	case constants.ReviewRun:
		http.Redirect(w, req, "/process-invoices/run/review/execute", http.StatusFound)
	case constants.FinalRun:
		http.Redirect(w, req, "/"+confirmFinalRunPath, http.StatusFound)
	default:
		r.renderError(w, req, http.StatusBadRequest, fmt.Sprintf("Invalid run type: '%s'", runType))
	}
}

func (r *Router) handleConfirmFinalRun(w http.ResponseWriter, req *http.Request) {
	r.render(w, req, http.StatusOK, pageConfirmFinalRun, pageData{Title: "Confirm Final Run"})
}

// handleExecuteRun launches a run and redirects to its status page.
// A final run is only launched when the request comes from the confirmation page.
// Active tasks take precedence over both the launch and the confirmation error.
func (r *Router) handleExecuteRun(w http.ResponseWriter, req *http.Request) {
	value, ok := r.getRequiredURLParam(w, req, "runType")
	if !ok {
		return
	}
	runType := constants.RunType(value)
	if !runType.Valid() {
		r.renderError(w, req, http.StatusBadRequest, fmt.Sprintf("Invalid run type: '%s'", value))
		return
	}

	if runType == constants.FinalRun && !strings.HasSuffix(req.Referer(), confirmFinalRunPath) {
		active, err := r.svc.GetActiveTasks(req.Context())
		if err != nil {
			r.handleAndLogError(w, req, err, "check active tasks")
			return
		}
		if len(active) > 0 {
			r.renderMultipleTasks(w, req, active)
			return
		}
		r.renderError(w, req, http.StatusBadRequest, "Unable to confirm execution of 'final' run.")
		return
	}

	// LaunchRun refuses to launch while tasks are active.
	launch, err := r.svc.LaunchRun(req.Context(), runType)
	if active, conflict := orchestrator.ActiveTasksFromError(err); conflict {
		r.renderMultipleTasks(w, req, active)
		return
	}
	if err != nil {
		r.handleAndLogError(w, req, err, "launch "+value+" run")
		return
	}

	auth.LogActivity(req.Context(), r.logger, fmt.Sprintf("executed a '%s' run (task ID = '%s').", value, launch.TaskID))
	http.Redirect(w, req, statusPath(launch.TaskID), http.StatusFound)
}

func (r *Router) renderMultipleTasks(w http.ResponseWriter, req *http.Request, active []api.ActiveTask) {
	r.render(w, req, http.StatusBadRequest, pageMultipleTasks, pageData{
		Title:       "Cannot run multiple tasks",
		ActiveTasks: active,
	})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	auth.LogActivity(req.Context(), r.logger, "logged out.")
	if r.opts.Authenticator != nil {
		r.opts.Authenticator.Logout(req.Header)
	}
	r.render(w, req, http.StatusOK, pageLogout, pageData{Title: "Logged out"})
}

func (r *Router) handleNotFound(w http.ResponseWriter, req *http.Request) {
	r.renderError(w, req, http.StatusNotFound, "The requested page does not exist.")
}
