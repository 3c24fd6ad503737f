package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
)

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "List tasks of the configured task definition that have not stopped",
	Args:  cobra.NoArgs,
	RunE:  activeRun,
}

var activeFormat string

func init() {
	activeCmd.Flags().StringVar(&activeFormat, "format", string(output.FormatText), "Output format: text, json or yaml")
	rootCmd.AddCommand(activeCmd)
}

func activeRun(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(activeFormat)
	if err != nil {
		return err
	}

	components, err := initializeComponents(cmd)
	if err != nil {
		return err
	}

	return NewActiveService(components.Service, NewOutputWrapper()).DisplayActive(cmd.Context(), format)
}

// ActiveService lists active tasks.
type ActiveService struct {
	svc    TaskService
	output OutputInterface
}

// NewActiveService creates a new ActiveService with the provided dependencies.
func NewActiveService(svc TaskService, outputter OutputInterface) *ActiveService {
	return &ActiveService{svc: svc, output: outputter}
}

// DisplayActive prints the active tasks, most recent first.
func (s *ActiveService) DisplayActive(ctx context.Context, format output.Format) error {
	tasks, err := s.svc.GetActiveTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active tasks: %w", err)
	}

	if format.Structured() {
		if tasks == nil {
			tasks = []api.ActiveTask{}
		}
		return s.output.Encode(format, tasks)
	}

	if len(tasks) == 0 {
		s.output.Successf("No active tasks")
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{task.TaskID, task.CreatedAt.Format(time.DateTime)})
	}
	s.output.Table([]string{"Task ID", "Created"}, rows)
	s.output.Blank()
	s.output.Warningf("%d task(s) active, new runs are blocked until they stop", len(tasks))
	return nil
}
