// Package constants defines global constants used throughout sapinvoices-ui.
// It includes version information, run types and the status labels shown to users.
package constants

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of sapinvoices-ui.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool and application
const ProjectName = "sapinvoices-ui"

// Environment represents the execution environment (e.g., CLI, Lambda).
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// RunType identifies which flavour of the SAP invoice batch job is launched.
type RunType string

const (
	// ReviewRun produces reports for staff review without sending anything to SAP.
	ReviewRun RunType = "review"
	// FinalRun sends invoices to SAP and marks them as paid in Alma.
	FinalRun RunType = "final"
)

// RunTypes returns the run types accepted by the task runner.
func RunTypes() []RunType {
	return []RunType{ReviewRun, FinalRun}
}

// Valid reports whether r is one of the known run types.
func (r RunType) Valid() bool {
	return r == ReviewRun || r == FinalRun
}

// DisplayName returns the label used in logs and pages, e.g. "Review Run".
func (r RunType) DisplayName() string {
	switch r {
	case ReviewRun:
		return "Review Run"
	case FinalRun:
		return "Final Run"
	default:
		return string(r)
	}
}

// Container command flags passed to the batch job.
const (
	RealRunFlag  = "--real"
	FinalRunFlag = "--final"
)

// ReviewRunCommands returns the container command override for a review run.
func ReviewRunCommands() []string {
	return []string{RealRunFlag}
}

// FinalRunCommands returns the container command override for a final run.
// It is a strict superset of the review run commands.
func FinalRunCommands() []string {
	return append(ReviewRunCommands(), FinalRunFlag)
}

// Status labels produced by the status reconciler in addition to raw ECS statuses.
const (
	StatusUnknown   = "UNKNOWN"
	StatusCompleted = "COMPLETED"
	StatusExpired   = "EXPIRED (UNKNOWN)"
)

// Messages returned in place of log output.
const (
	LoadingMessage           = "Loading."
	LogStreamExpiredMessage  = "Log stream expired, cannot find logs for task."
	ProcessIncompleteMessage = "SAP invoice process did not complete."
)

// SummaryMarkers are the log substrings that open the summary section of a run.
// The first message containing any of them starts the summary.
var SummaryMarkers = []string{
	"SAP invoice process completed",
	"No invoices waiting to be sent in Alma",
}

// MaxPaginationPages bounds every remote pagination loop.
const MaxPaginationPages = 1000
