package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/app"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the web app locally",
	Long:        "Serve the web app locally, with live status updates over WebSocket. Stop with Ctrl+C.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoTimeout: "true"},
	RunE:        serveRun,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to the configured port)")
	rootCmd.AddCommand(serveCmd)
}

func serveRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	// The server logs at the configured level, not the CLI's.
	level := cfg.GetLogLevel()
	if debug {
		level = slog.LevelDebug
	}
	log := logger.Initialize(constants.Development, level)

	initCtx, cancel := context.WithTimeout(cmd.Context(), cfg.InitTimeout)
	a, err := app.Initialize(initCtx, cfg, log, app.WithStream(true))
	cancel()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      a.Handler(),
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		output.Infof("Starting local server on %s (Ctrl+C to stop)", output.Bold(fmt.Sprintf("http://localhost:%d", cfg.Port)))
		output.Infof("Health check: http://localhost:%d/healthz", cfg.Port)
		if listenErr := srv.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serveErr <- listenErr
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	output.Infof("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), constants.ServerShutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err = a.Shutdown(shutdownCtx); err != nil {
		log.Warn("failed to shut down app", "error", err)
	}

	output.Successf("Server stopped")
	return nil
}
