package auth

import (
	"context"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
)

// LogActivity records an action taken by the user in ctx.
// Nothing is logged for anonymous users.
func LogActivity(ctx context.Context, log *slog.Logger, action string) {
	user, ok := UserFromContext(ctx)
	if !ok || !user.Authenticated() {
		return
	}

	logger.DeriveRequestLogger(ctx, log).Info("user activity",
		"user", user.Name,
		"mit_id", user.MITID,
		"action", user.Name+" "+action)
}
