package model

import (
	"time"
)

// Timer is the single in-progress work session of a project. It exists
// from start until stop converts it into a TimeEntry; only one may be
// active per project at any time.
type Timer struct {
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	TaskID      *string   `json:"task_id,omitempty"`
	TaskName    *string   `json:"task_name,omitempty"`
	Description string    `json:"description"`
	Billable    bool      `json:"billable"`
	HourlyRate  float64   `json:"hourly_rate"`
	StartTime   time.Time `json:"start_time"`
}

// TaskLabel returns the task name for display, or NoTaskLabel when the
// timer is not linked to a task.
func (t *Timer) TaskLabel() string {
	if t.TaskName == nil || *t.TaskName == "" {
		return NoTaskLabel
	}
	return *t.TaskName
}

// TimerDraft carries the attribution fields for starting a timer or
// logging a manual entry. StartTime is assigned by the controller.
type TimerDraft struct {
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	TaskID      *string `json:"task_id,omitempty"`
	TaskName    *string `json:"task_name,omitempty"`
	Description string  `json:"description"`
	Billable    bool    `json:"billable"`
	HourlyRate  float64 `json:"hourly_rate"`
}
