package observability

import (
	"log/slog"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures error reporting when dsn is set. The returned function
// flushes buffered events and should be deferred by the caller.
func InitSentry(dsn, environment string, log *slog.Logger) (func(), error) {
	if dsn == "" {
		log.Debug("sentry disabled, no DSN configured")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          constants.ProjectName + "@" + *constants.GetVersion(),
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}

	log.Info("sentry initialized", "environment", environment)
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// ReportError sends err to Sentry. It does nothing when Sentry is not initialized.
func ReportError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// ReportPanic sends a recovered panic value to Sentry.
func ReportPanic(recovered any) {
	sentry.CurrentHub().Recover(recovered)
}
