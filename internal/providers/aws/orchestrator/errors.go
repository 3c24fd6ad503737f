// Package orchestrator provides the AWS implementations of the backend
// capabilities: ECS for task scheduling and CloudWatch Logs for task output.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"

	"github.com/aws/smithy-go"
)

// translateAWSError converts an SDK failure into an AppError. Server-side faults
// map to 503 so callers may retry; everything else is an internal error.
func translateAWSError(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		message := fmt.Sprintf("%s failed: %s", operation, apiErr.ErrorCode())
		if apiErr.ErrorFault() == smithy.FaultServer {
			return appErrors.ErrServiceUnavailable(message, err)
		}
		return appErrors.ErrInternalError(message, err)
	}

	return appErrors.ErrServiceUnavailable(operation+" failed", err)
}
