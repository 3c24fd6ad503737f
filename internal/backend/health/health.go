// Package health reports whether the app can reach the AWS services it depends on.
package health

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Overall statuses reported by Check.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Check names.
const (
	CheckIdentity       = "aws_identity"
	CheckTaskDefinition = "ecs_task_definition"
)

// AccountIDResolver resolves the AWS account the process runs as.
type AccountIDResolver interface {
	GetAccountID(ctx context.Context) (string, error)
}

// TaskDefinitionChecker reports whether the configured task definition is registered.
type TaskDefinitionChecker interface {
	TaskDefinitionExists(ctx context.Context) (bool, error)
}

// Checker runs the health checks.
type Checker struct {
	region         string
	identity       AccountIDResolver
	taskDefs       TaskDefinitionChecker
	taskDefinition string
	logger         *slog.Logger
}

// NewChecker creates a Checker. Either dependency may be nil, in which case its
// check is skipped.
func NewChecker(
	region string,
	identity AccountIDResolver,
	taskDefs TaskDefinitionChecker,
	taskDefinition string,
	log *slog.Logger,
) *Checker {
	return &Checker{
		region:         region,
		identity:       identity,
		taskDefs:       taskDefs,
		taskDefinition: taskDefinition,
		logger:         log,
	}
}

// Check runs every configured check concurrently. Failures are reported in the
// response, never returned as errors.
func (c *Checker) Check(ctx context.Context) *api.HealthResponse {
	resp := &api.HealthResponse{
		Status:  StatusOK,
		Version: *constants.GetVersion(),
		Region:  c.region,
	}

	var (
		identityCheck *api.HealthCheck
		taskDefCheck  *api.HealthCheck
		accountID     string
	)

	var g errgroup.Group
	if c.identity != nil {
		g.Go(func() error {
			id, err := c.identity.GetAccountID(ctx)
			identityCheck = &api.HealthCheck{Name: CheckIdentity, OK: err == nil}
			if err != nil {
				identityCheck.Detail = err.Error()
				return nil
			}
			accountID = id
			return nil
		})
	}
	if c.taskDefs != nil {
		g.Go(func() error {
			exists, err := c.taskDefs.TaskDefinitionExists(ctx)
			taskDefCheck = &api.HealthCheck{Name: CheckTaskDefinition, OK: err == nil && exists}
			switch {
			case err != nil:
				taskDefCheck.Detail = err.Error()
			case !exists:
				taskDefCheck.Detail = fmt.Sprintf("task definition '%s' is not registered", c.taskDefinition)
			default:
				taskDefCheck.Detail = c.taskDefinition
			}
			return nil
		})
	}
	_ = g.Wait()

	resp.AccountID = accountID
	for _, check := range []*api.HealthCheck{identityCheck, taskDefCheck} {
		if check == nil {
			continue
		}
		resp.Checks = append(resp.Checks, *check)
		if !check.OK {
			resp.Status = StatusDegraded
		}
	}
	if resp.Checks == nil {
		resp.Checks = []api.HealthCheck{}
	}

	if resp.Status != StatusOK {
		logger.DeriveRequestLogger(ctx, c.logger).Warn("health check degraded", "checks", resp.Checks)
	}
	return resp
}
