package constants

import "strings"

// LastSegment returns the text after the final "/" of an ARN or log stream name.
// Task IDs are the last segment of both the task ARN and the task's log stream.
func LastSegment(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// BuildLogStreamName constructs the CloudWatch Logs stream name for a task.
func BuildLogStreamName(prefix, taskID string) string {
	return prefix + taskID
}
