package cmd

import (
	"context"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/orchestrator"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/spf13/cobra"
)

// TaskService is the part of the orchestration service the CLI commands use.
type TaskService interface {
	GetActiveTasks(ctx context.Context) ([]api.ActiveTask, error)
	LaunchRun(ctx context.Context, runType constants.RunType) (*api.LaunchResponse, error)
	GetTaskStatusAndLogsWithOptions(ctx context.Context, taskID string, summary bool) (*api.TaskStatusResponse, error)
	WatchTask(
		ctx context.Context,
		taskID string,
		timeout time.Duration,
		fn func(api.TaskStatusUpdate),
	) (*api.TaskStatusResponse, error)
	SummaryLogs() bool
}

// initializeComponents builds the orchestration service from the command's configuration.
func initializeComponents(cmd *cobra.Command) (*orchestrator.Components, error) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.InitTimeout)
	defer cancel()
	return orchestrator.Initialize(ctx, cfg, cliLogger)
}

// summaryFlag returns the --summary value, or the configured default when the flag is unset.
func summaryFlag(cmd *cobra.Command, svc TaskService) bool {
	if cmd.Flags().Changed("summary") {
		summary, _ := cmd.Flags().GetBool("summary")
		return summary
	}
	return svc.SummaryLogs()
}

// renderTaskView prints a reconciled status view as text.
func renderTaskView(out OutputInterface, taskID string, view *api.TaskStatusResponse) {
	out.KeyValue("Task ID", taskID)
	out.KeyValue("Status", out.StatusBadge(view.Status))
	out.Blank()
	out.Lines(view.Logs)
}
