package model

import (
	"time"
)

// EntryStatus is the lifecycle state of a logged unit of work.
type EntryStatus string

const (
	// StatusStopped marks a completed entry. Every persisted entry carries
	// this status; an in-progress session is a Timer, never a TimeEntry.
	StatusStopped EntryStatus = "stopped"
)

// NoTaskLabel is the display label for entries not linked to a task.
// It is rendered only at presentation boundaries (stats keys, export);
// inside the engine "no task" stays a nil TaskID/TaskName pair so a real
// task with this name cannot collide with it.
const NoTaskLabel = "Без задачи"

// TimeEntry represents a completed, persisted record of tracked work.
type TimeEntry struct {
	ID              string      `json:"id"`
	ProjectID       string      `json:"project_id"`
	UserID          string      `json:"user_id"`
	UserName        string      `json:"user_name"`
	TaskID          *string     `json:"task_id,omitempty"`
	TaskName        *string     `json:"task_name,omitempty"`
	Description     string      `json:"description"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	DurationMinutes int         `json:"duration_minutes"`
	Billable        bool        `json:"billable"`
	HourlyRate      float64     `json:"hourly_rate"`
	Status          EntryStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TaskLabel returns the task name for display, or NoTaskLabel when the
// entry is not linked to a task.
func (e *TimeEntry) TaskLabel() string {
	if e.TaskName == nil || *e.TaskName == "" {
		return NoTaskLabel
	}
	return *e.TaskName
}

// Hours returns the tracked duration in fractional hours.
func (e *TimeEntry) Hours() float64 {
	return float64(e.DurationMinutes) / 60.0
}

// Amount returns the billable amount for this entry, 0 when not billable.
func (e *TimeEntry) Amount() float64 {
	if !e.Billable {
		return 0
	}
	return e.Hours() * e.HourlyRate
}

// Day returns the entry's start date truncated to a calendar-day string.
func (e *TimeEntry) Day() string {
	return e.StartTime.Format("2006-01-02")
}
