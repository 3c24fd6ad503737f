package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file besides the layout.
const (
	pageIndex           = "index"
	pageProcessInvoices = "process_invoices"
	pageConfirmFinalRun = "process_invoices_confirm_final_run"
	pageStatus          = "process_invoices_status"
	pageLogout          = "logout"
	pageError           = "error"
	pageMultipleTasks   = "error_400_cannot_run_multiple_tasks"
	pageObjectNotFound  = "error_404_object_not_found"
)

var pageNames = []string{
	pageIndex,
	pageProcessInvoices,
	pageConfirmFinalRun,
	pageStatus,
	pageLogout,
	pageError,
	pageMultipleTasks,
	pageObjectNotFound,
}

// pageData is the value every page template is executed with.
type pageData struct {
	User          *auth.User
	Title         string
	RunTypes      []constants.RunType
	TaskID        string
	Status        string
	Logs          []string
	Summary       bool
	StreamEnabled bool
	ActiveTasks   []api.ActiveTask
	StatusCode    int
	Message       string
}

type pages struct {
	templates map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05 MST")
	},
	"displayName": func(r constants.RunType) string {
		return r.DisplayName()
	},
	"statusText": http.StatusText,
}

func loadPages() (*pages, error) {
	p := &pages{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

func mustLoadPages() *pages {
	p, err := loadPages()
	if err != nil {
		panic("failed to parse page templates: " + err.Error())
	}
	return p
}

// render executes the named page into a buffer so a template failure never
// leaves a half written response.
func (r *Router) render(w http.ResponseWriter, req *http.Request, status int, name string, data pageData) {
	if user, ok := auth.UserFromContext(req.Context()); ok {
		data.User = user
	}

	tmpl, ok := r.pages.templates[name]
	if !ok {
		r.GetLoggerFromContext(req.Context()).Error("unknown page template", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		r.GetLoggerFromContext(req.Context()).Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set(constants.ContentTypeHeader, "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError writes an error page, or a JSON error for data endpoints.
func (r *Router) renderError(w http.ResponseWriter, req *http.Request, status int, message string) {
	if wantsJSON(req) {
		writeErrorResponse(w, status, http.StatusText(status), message)
		return
	}
	r.render(w, req, status, errorPage(status), pageData{
		Title:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}

// errorPage returns the page rendered for an error status.
func errorPage(status int) string {
	if status == http.StatusNotFound {
		return pageObjectNotFound
	}
	return pageError
}

func wantsJSON(req *http.Request) bool {
	return strings.HasSuffix(req.URL.Path, "/data") ||
		req.URL.Path == "/healthz" ||
		strings.Contains(req.Header.Get("Accept"), "application/json")
}
