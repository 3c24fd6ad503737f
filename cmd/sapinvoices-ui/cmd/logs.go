package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs <task-id>",
	Short: "Print the log messages of a stopped task",
	Args:  cobra.ExactArgs(1),
	RunE:  logsRun,
}

func init() {
	logsCmd.Flags().Bool("summary", false, "Only print the summary section of the logs")
	rootCmd.AddCommand(logsCmd)
}

func logsRun(cmd *cobra.Command, args []string) error {
	components, err := initializeComponents(cmd)
	if err != nil {
		return err
	}

	service := NewLogsService(components.Service, NewOutputWrapper())
	return service.DisplayLogs(cmd.Context(), args[0], summaryFlag(cmd, components.Service))
}

// LogsService prints task log messages.
type LogsService struct {
	svc    TaskService
	output OutputInterface
}

// NewLogsService creates a new LogsService with the provided dependencies.
func NewLogsService(svc TaskService, outputter OutputInterface) *LogsService {
	return &LogsService{svc: svc, output: outputter}
}

// DisplayLogs prints the task's messages. Logs are only read once the task has stopped.
func (s *LogsService) DisplayLogs(ctx context.Context, taskID string, summary bool) error {
	view, err := s.svc.GetTaskStatusAndLogsWithOptions(ctx, taskID, summary)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}

	switch {
	case slices.Equal(view.Logs, []string{constants.LoadingMessage}):
		s.output.Infof("Task %s is %s, logs are available once it stops", taskID, view.Status)
	case view.Status == constants.StatusExpired:
		s.output.Warningf("%s", constants.LogStreamExpiredMessage)
	default:
		s.output.Lines(view.Logs)
	}
	return nil
}
