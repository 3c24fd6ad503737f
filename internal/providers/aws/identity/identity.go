// Package identity provides helpers for retrieving AWS identity information.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/client"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Resolver looks up the AWS account the process is running as.
type Resolver struct {
	client client.STSClient
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given STS client.
func NewResolver(stsClient client.STSClient, log *slog.Logger) *Resolver {
	return &Resolver{client: stsClient, logger: log}
}

// GetAccountID retrieves the AWS account ID using STS GetCallerIdentity.
func (r *Resolver) GetAccountID(ctx context.Context) (string, error) {
	r.logger.Debug("calling external service", "context", map[string]string{
		"operation": "STS.GetCallerIdentity",
	})

	output, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity failed: %w", err)
	}

	if output.Account == nil || *output.Account == "" {
		return "", errors.New("STS returned empty account ID")
	}

	return *output.Account, nil
}
