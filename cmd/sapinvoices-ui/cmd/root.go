package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
)

// Command annotations read by the root pre-run hook.
const (
	annotationOptionalConfig = "optional-config"
	annotationNoTimeout      = "no-timeout"
)

var (
	configFile    string
	debug         bool
	timeout       string
	timeoutCancel context.CancelFunc
	verbose       bool

	cliLogger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: constants.ProjectName,
	Long: fmt.Sprintf(`%s - %s
Launch and monitor SAP invoice runs and read their logs`,
		constants.ProjectName, *constants.GetVersion()),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		startTime := time.Now().UTC()
		cmd.SetContext(context.WithValue(cmd.Context(), constants.StartTimeCtxKey, startTime))
		printHeader(cmd)

		if verbose {
			output.Infof("CLI build: %s", output.Bold(*constants.GetVersion()))
			output.Infof("Verbose output enabled")
		}

		logLevel := slog.LevelWarn
		if debug {
			logLevel = slog.LevelDebug
		}
		cliLogger = logger.Initialize(constants.CLI, logLevel)

		if err := applyTimeout(cmd); err != nil {
			return err
		}

		cfg, err := config.LoadFile(configFile)
		if err != nil {
			if cmd.Annotations[annotationOptionalConfig] == "true" {
				cliLogger.Debug("continuing without configuration", "error", err)
				return nil
			}
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		cmd.SetContext(context.WithValue(cmd.Context(), constants.ConfigCtxKey, cfg))
		if verbose {
			if configFile != "" {
				output.Infof("Loaded configuration from %s", output.Bold(configFile))
			}
			output.Infof("Cluster: %s", output.Bold(cfg.ECSCluster))
			output.Infof("Task definition: %s", output.Bold(cfg.TaskDefinition))
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			startTime := getStartTimeFromContext(cmd)
			if !startTime.IsZero() {
				output.Infof("Time elapsed: %s", output.Bold(time.Since(startTime).String()))
			}
		}
		if timeoutCancel != nil {
			timeoutCancel()
		}
	},
}

// Execute runs the root command and handles cleanup of timeout context.
func Execute() {
	err := rootCmd.Execute()
	if timeoutCancel != nil {
		timeoutCancel()
	}

	if err != nil {
		output.Errorf("%s", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML configuration file (environment variables take precedence)")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "10m", "Timeout for command execution (e.g., 10m, 30s, 1h)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

func applyTimeout(cmd *cobra.Command) error {
	if timeout == "0" || cmd.Annotations[annotationNoTimeout] == "true" {
		if verbose {
			output.Infof("Timeout disabled")
		}
		return nil
	}

	// NOTICE: this runs after flags are parsed but before the command runs
	timeoutDuration, err := parseTimeout(timeout)
	if err != nil {
		return fmt.Errorf("error parsing timeout: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
	timeoutCancel = cancel
	cmd.SetContext(ctx)

	if verbose {
		output.Infof("Timeout: %s", timeoutDuration)
	}
	return nil
}

// parseTimeout parses timeout string to time.Duration
// defaults to 10 minutes if empty
// Supports formats: "10m", "30s", "1h", "600" (number of seconds)
func parseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		timeoutStr = "10m"
	}

	duration, err := time.ParseDuration(timeoutStr)
	if err == nil {
		return duration, nil
	}

	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil {
		errMsg := fmt.Sprintf(
			"invalid timeout format: %s (use duration like '10m' or '30s', or seconds like '600')",
			timeoutStr)
		return 0, errors.New(errMsg)
	}

	return time.Duration(seconds) * time.Second, nil
}

// printHeader is skipped for machine-readable output.
func printHeader(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("format"); f != nil {
		if format, err := output.ParseFormat(f.Value.String()); err == nil && format.Structured() {
			return
		}
	}
	output.Header(output.Bold("🧾 " + constants.ProjectName + " " + cmd.CalledAs()))
}

// getConfigFromContext retrieves the config from the command context
func getConfigFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(constants.ConfigCtxKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

func getStartTimeFromContext(cmd *cobra.Command) time.Time {
	startTime, ok := cmd.Context().Value(constants.StartTimeCtxKey).(time.Time)
	if !ok {
		return time.Time{}
	}
	return startTime
}

// RootCmd returns the root command for use by tools like doc generators.
func RootCmd() *cobra.Command {
	return rootCmd
}
