package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:         "monitor <task-id>",
	Short:       "Follow a task until it stops, then print its status and logs",
	Args:        cobra.ExactArgs(1),
	RunE:        monitorRun,
	Annotations: map[string]string{annotationNoTimeout: "true"},
}

var monitorTimeout time.Duration

func init() {
	monitorCmd.Flags().DurationVar(&monitorTimeout, "monitor-timeout", 0,
		"How long to monitor the task (defaults to the configured monitor timeout)")
	rootCmd.AddCommand(monitorCmd)
}

func monitorRun(cmd *cobra.Command, args []string) error {
	components, err := initializeComponents(cmd)
	if err != nil {
		return err
	}

	return NewMonitorService(components.Service, NewOutputWrapper()).Watch(cmd.Context(), args[0], monitorTimeout)
}

// MonitorService prints status transitions of a monitored task.
type MonitorService struct {
	svc    TaskService
	output OutputInterface
}

// NewMonitorService creates a new MonitorService with the provided dependencies.
func NewMonitorService(svc TaskService, outputter OutputInterface) *MonitorService {
	return &MonitorService{svc: svc, output: outputter}
}

// Watch blocks until the task stops or the timeout elapses. Only status changes are printed.
func (s *MonitorService) Watch(ctx context.Context, taskID string, timeout time.Duration) error {
	s.output.Infof("Monitoring task %s", s.output.Bold(taskID))

	var last string
	view, err := s.svc.WatchTask(ctx, taskID, timeout, func(update api.TaskStatusUpdate) {
		if update.Status == last {
			return
		}
		last = update.Status
		s.output.Infof("%s %s", update.ObservedAt.Format(time.TimeOnly), s.output.StatusBadge(update.Status))
	})
	if err != nil {
		return fmt.Errorf("failed to monitor task: %w", err)
	}

	s.output.Blank()
	renderTaskView(s.output, taskID, view)
	return nil
}
