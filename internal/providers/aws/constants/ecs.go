// Package constants provides AWS-specific constants for ECS task execution.
package constants

import "slices"

// EcsStatus represents the AWS ECS Task LastStatus lifecycle values.
// These are string statuses returned by ECS DescribeTasks for Task.LastStatus.
type EcsStatus string

const (
	// EcsStatusProvisioning represents a task being provisioned
	EcsStatusProvisioning EcsStatus = "PROVISIONING"
	// EcsStatusPending represents a task pending activation
	EcsStatusPending EcsStatus = "PENDING"
	// EcsStatusActivating represents a task being activated
	EcsStatusActivating EcsStatus = "ACTIVATING"
	// EcsStatusRunning represents a task currently running
	EcsStatusRunning EcsStatus = "RUNNING"
	// EcsStatusDeactivating represents a task being deactivated
	EcsStatusDeactivating EcsStatus = "DEACTIVATING"
	// EcsStatusStopping represents a task being stopped
	EcsStatusStopping EcsStatus = "STOPPING"
	// EcsStatusDeprovisioning represents a task being deprovisioned
	EcsStatusDeprovisioning EcsStatus = "DEPROVISIONING"
	// EcsStatusStopped represents a task that has stopped
	EcsStatusStopped EcsStatus = "STOPPED"
)

// Lifecycle returns the task statuses in the order ECS moves through them.
func Lifecycle() []EcsStatus {
	return []EcsStatus{
		EcsStatusProvisioning,
		EcsStatusPending,
		EcsStatusActivating,
		EcsStatusRunning,
		EcsStatusDeactivating,
		EcsStatusStopping,
		EcsStatusDeprovisioning,
		EcsStatusStopped,
	}
}

// IsKnown reports whether s is a documented ECS task status.
func (s EcsStatus) IsKnown() bool {
	return slices.Contains(Lifecycle(), s)
}

// IsTerminal reports whether the task has reached STOPPED.
func (s EcsStatus) IsTerminal() bool {
	return s == EcsStatusStopped
}

// LaunchTypeFargate is the only launch type used for the batch job.
const LaunchTypeFargate = "FARGATE"

// ECSDescribeTasksMaxARNs is the maximum number of task ARNs accepted by one DescribeTasks call.
const ECSDescribeTasksMaxARNs = 100

// ECSListTasksMaxResults is the page size for ECS ListTasks.
const ECSListTasksMaxResults = int32(100)

// ECSTaskDefinitionMaxResults is the maximum number of results for ECS ListTaskDefinitions
const ECSTaskDefinitionMaxResults = int32(100)
