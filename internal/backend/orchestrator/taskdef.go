package orchestrator

import (
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
)

// TaskDefinition identifies the batch job template launched by the runner.
// It is built once from configuration and never modified.
type TaskDefinition struct {
	Cluster string
	// Definition is the configured value: a family, family:revision, or full ARN.
	Definition    string
	Family        string
	Revision      string
	ContainerName string
	Network       api.NetworkConfiguration
}

// NewTaskDefinition builds the task definition from configuration.
func NewTaskDefinition(cfg *config.Config) TaskDefinition {
	family, revision := ParseTaskDefinition(cfg.TaskDefinition)
	return TaskDefinition{
		Cluster:       cfg.ECSCluster,
		Definition:    cfg.TaskDefinition,
		Family:        family,
		Revision:      revision,
		ContainerName: cfg.ContainerName,
		Network:       cfg.Network,
	}
}

// ParseTaskDefinition splits a task definition reference into family and revision.
// The revision is empty when none is given.
//
//	"alma-sapinvoices-dev:3" -> ("alma-sapinvoices-dev", "3")
//	"arn:aws:ecs:us-east-1:123:task-definition/alma-sapinvoices-dev:3" -> ("alma-sapinvoices-dev", "3")
func ParseTaskDefinition(definition string) (family, revision string) {
	name := definition
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	family, revision, _ = strings.Cut(name, ":")
	return family, revision
}

// FamilyRevision returns "family:revision", or the family alone when no revision is set.
func (d TaskDefinition) FamilyRevision() string {
	if d.Revision == "" {
		return d.Family
	}
	return d.Family + ":" + d.Revision
}

// matches reports whether a listed task definition ARN is this definition.
// Without a configured revision any revision of the family matches.
func (d TaskDefinition) matches(arn string) bool {
	family, revision := ParseTaskDefinition(arn)
	if family != d.Family {
		return false
	}
	return d.Revision == "" || revision == d.Revision
}
