package cmd

import (
	"context"
	"fmt"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show the reconciled status and logs of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  statusRun,
}

var statusFormat string

func init() {
	statusCmd.Flags().Bool("summary", false, "Only show the summary section of the logs")
	statusCmd.Flags().StringVar(&statusFormat, "format", string(output.FormatText), "Output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusFormat)
	if err != nil {
		return err
	}

	components, err := initializeComponents(cmd)
	if err != nil {
		return err
	}

	service := NewStatusService(components.Service, NewOutputWrapper())
	return service.DisplayStatus(cmd.Context(), args[0], summaryFlag(cmd, components.Service), format)
}

// StatusService handles status display logic.
type StatusService struct {
	svc    TaskService
	output OutputInterface
}

// NewStatusService creates a new StatusService with the provided dependencies.
func NewStatusService(svc TaskService, outputter OutputInterface) *StatusService {
	return &StatusService{svc: svc, output: outputter}
}

// DisplayStatus retrieves and displays the status of a task.
func (s *StatusService) DisplayStatus(ctx context.Context, taskID string, summary bool, format output.Format) error {
	view, err := s.svc.GetTaskStatusAndLogsWithOptions(ctx, taskID, summary)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if format.Structured() {
		return s.output.Encode(format, view)
	}
	renderTaskView(s.output, taskID, view)
	return nil
}
