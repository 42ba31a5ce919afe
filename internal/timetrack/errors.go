package timetrack

import "errors"

// Sentinel errors for timer and entry validation. All are returned
// synchronously before any state mutation.
var (
	ErrEmptyDescription      = errors.New("description must not be empty")
	ErrTimerRunning          = errors.New("a timer is already running")
	ErrNoTimer               = errors.New("no active timer")
	ErrInvalidDurationWindow = errors.New("end time must be after start time")
	ErrNegativeRate          = errors.New("hourly rate must not be negative")
)
