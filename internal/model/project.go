package model

import (
	"time"
)

// Project scopes time entries and the active timer slot.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields (not stored)
	EntryCount   int `json:"entry_count,omitempty"`
	TotalMinutes int `json:"total_minutes,omitempty"`
}
