// Package client defines narrow interfaces over the AWS SDK clients used by
// sapinvoices-ui, with adapters wrapping the real SDK clients.
package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// ECSClient defines the ECS operations used to launch and inspect SAP invoice tasks.
// It satisfies the SDK paginator interfaces for ListTasks and ListTaskDefinitions.
type ECSClient interface {
	RunTask(
		ctx context.Context,
		params *ecs.RunTaskInput,
		optFns ...func(*ecs.Options),
	) (*ecs.RunTaskOutput, error)
	ListTasks(
		ctx context.Context,
		params *ecs.ListTasksInput,
		optFns ...func(*ecs.Options),
	) (*ecs.ListTasksOutput, error)
	DescribeTasks(
		ctx context.Context,
		params *ecs.DescribeTasksInput,
		optFns ...func(*ecs.Options),
	) (*ecs.DescribeTasksOutput, error)
	ListTaskDefinitions(
		ctx context.Context,
		params *ecs.ListTaskDefinitionsInput,
		optFns ...func(*ecs.Options),
	) (*ecs.ListTaskDefinitionsOutput, error)
}

// ECSClientAdapter wraps the AWS SDK ECS client to implement ECSClient interface.
type ECSClientAdapter struct {
	client *ecs.Client
}

// NewECSClientAdapter creates a new adapter wrapping the AWS SDK ECS client.
func NewECSClientAdapter(client *ecs.Client) *ECSClientAdapter {
	return &ECSClientAdapter{client: client}
}

// RunTask wraps the AWS SDK RunTask operation.
func (a *ECSClientAdapter) RunTask(
	ctx context.Context,
	params *ecs.RunTaskInput,
	optFns ...func(*ecs.Options),
) (*ecs.RunTaskOutput, error) {
	return a.client.RunTask(ctx, params, optFns...)
}

// ListTasks wraps the AWS SDK ListTasks operation.
func (a *ECSClientAdapter) ListTasks(
	ctx context.Context,
	params *ecs.ListTasksInput,
	optFns ...func(*ecs.Options),
) (*ecs.ListTasksOutput, error) {
	return a.client.ListTasks(ctx, params, optFns...)
}

// DescribeTasks wraps the AWS SDK DescribeTasks operation.
func (a *ECSClientAdapter) DescribeTasks(
	ctx context.Context,
	params *ecs.DescribeTasksInput,
	optFns ...func(*ecs.Options),
) (*ecs.DescribeTasksOutput, error) {
	return a.client.DescribeTasks(ctx, params, optFns...)
}

// ListTaskDefinitions wraps the AWS SDK ListTaskDefinitions operation.
func (a *ECSClientAdapter) ListTaskDefinitions(
	ctx context.Context,
	params *ecs.ListTaskDefinitionsInput,
	optFns ...func(*ecs.Options),
) (*ecs.ListTaskDefinitionsOutput, error) {
	return a.client.ListTaskDefinitions(ctx, params, optFns...)
}
