package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/orchestrator"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <review|final>",
	Short: "Launch a review or final run of the SAP invoices job",
	Long: `Launch a review or final run of the SAP invoices job.

A review run produces reports for staff review. A final run sends invoices to SAP
and marks them as paid in Alma. Nothing is launched while another task is active.`,
	Example: fmt.Sprintf(`  - %s run review
  - %s run final --yes --wait`, constants.ProjectName, constants.ProjectName),
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(constants.ReviewRun), string(constants.FinalRun)},
	RunE:      runRun,
}

var (
	runWait           bool
	runConfirmFinal   bool
	runMonitorTimeout time.Duration
)

func init() {
	runCmd.Flags().BoolVar(&runWait, "wait", false, "Monitor the task until it stops and print its logs")
	runCmd.Flags().BoolVar(&runConfirmFinal, "yes", false, "Confirm a final run")
	runCmd.Flags().DurationVar(&runMonitorTimeout, "monitor-timeout", 0,
		"How long --wait monitors the task (defaults to the configured monitor timeout)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	components, err := initializeComponents(cmd)
	if err != nil {
		return err
	}

	service := NewRunService(components.Service, NewOutputWrapper())
	return service.ExecuteRun(cmd.Context(), RunOptions{
		RunType:        constants.RunType(args[0]),
		ConfirmFinal:   runConfirmFinal,
		Wait:           runWait,
		MonitorTimeout: runMonitorTimeout,
	})
}

// RunOptions controls a launch from the CLI.
type RunOptions struct {
	RunType constants.RunType
	// ConfirmFinal must be set to launch a final run.
	ConfirmFinal   bool
	Wait           bool
	MonitorTimeout time.Duration
}

// RunService handles launching runs.
type RunService struct {
	svc    TaskService
	output OutputInterface
}

// NewRunService creates a new RunService with the provided dependencies.
func NewRunService(svc TaskService, outputter OutputInterface) *RunService {
	return &RunService{svc: svc, output: outputter}
}

// ExecuteRun launches the run unless other tasks are active and optionally waits for it.
func (s *RunService) ExecuteRun(ctx context.Context, opts RunOptions) error {
	if !opts.RunType.Valid() {
		return fmt.Errorf("invalid run type: '%s'", opts.RunType)
	}
	if opts.RunType == constants.FinalRun && !opts.ConfirmFinal {
		return fmt.Errorf("unable to confirm execution of '%s' run: pass --yes to confirm", opts.RunType)
	}

	launch, err := s.svc.LaunchRun(ctx, opts.RunType)
	if active, conflict := orchestrator.ActiveTasksFromError(err); conflict {
		s.reportActive(active)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", opts.RunType.DisplayName(), err)
	}

	s.output.Successf("Started %s", opts.RunType.DisplayName())
	s.output.KeyValue("Task ID", launch.TaskID)
	s.output.KeyValue("Task ARN", launch.TaskARN)

	if !opts.Wait {
		return nil
	}
	s.output.Blank()
	// The command timeout bounds the launch only; the monitor timeout bounds the wait.
	return NewMonitorService(s.svc, s.output).Watch(context.WithoutCancel(ctx), launch.TaskID, opts.MonitorTimeout)
}

func (s *RunService) reportActive(active []api.ActiveTask) {
	s.output.Errorf("Cannot run multiple tasks")
	rows := make([][]string, 0, len(active))
	for _, task := range active {
		rows = append(rows, []string{task.TaskID, task.CreatedAt.Format(time.DateTime)})
	}
	s.output.Table([]string{"Task ID", "Created"}, rows)
}
