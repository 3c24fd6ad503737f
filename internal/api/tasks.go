package api

import "time"

// NetworkConfiguration is the awsvpc network configuration used to launch tasks.
// It is decoded from the JSON held in ALMA_SAP_INVOICES_ECS_NETWORK_CONFIG.
type NetworkConfiguration struct {
	AwsvpcConfiguration AwsvpcConfiguration `json:"awsvpcConfiguration" yaml:"awsvpcConfiguration"`
}

// AwsvpcConfiguration lists the subnets and security groups for a Fargate task.
type AwsvpcConfiguration struct {
	Subnets        []string `json:"subnets" yaml:"subnets" validate:"required,min=1,dive,required"`
	SecurityGroups []string `json:"securityGroups,omitempty" yaml:"securityGroups,omitempty" validate:"dive,required"`
	AssignPublicIP string   `json:"assignPublicIp,omitempty" yaml:"assignPublicIp,omitempty" validate:"omitempty,oneof=ENABLED DISABLED"`
}

// TaskRun is a single launched instance of the batch job as reported by the cluster.
type TaskRun struct {
	TaskARN   string     `json:"task_arn" yaml:"task_arn"`
	TaskID    string     `json:"task_id" yaml:"task_id"`
	Status    string     `json:"status" yaml:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	StoppedAt *time.Time `json:"stopped_at,omitempty" yaml:"stopped_at,omitempty"`
}

// ActiveTask is a task that has not yet reached STOPPED.
type ActiveTask struct {
	TaskID    string    `json:"task_id" yaml:"task_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// LaunchResponse describes a freshly started run.
type LaunchResponse struct {
	RunType string `json:"run_type" yaml:"run_type"`
	TaskARN string `json:"task_arn" yaml:"task_arn"`
	TaskID  string `json:"task_id" yaml:"task_id"`
}

// TaskStatusResponse is the combined status and log view of a task.
// Status is either a raw ECS status or one of COMPLETED, UNKNOWN, EXPIRED (UNKNOWN).
type TaskStatusResponse struct {
	Status string   `json:"status" yaml:"status"`
	Logs   []string `json:"logs" yaml:"logs"`
}

// TaskStatusUpdate is emitted for every status observation while a task is monitored.
type TaskStatusUpdate struct {
	TaskID     string    `json:"task_id"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
	Done       bool      `json:"done"`
}

// StatusStreamMessage is the payload pushed over the status WebSocket.
type StatusStreamMessage struct {
	Type   string              `json:"type"`
	Update *TaskStatusUpdate   `json:"update,omitempty"`
	Result *TaskStatusResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// Status stream message types.
const (
	StreamMessageStatus = "status"
	StreamMessageResult = "result"
	StreamMessageError  = "error"
)
