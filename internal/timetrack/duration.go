// Package timetrack is the time-tracking aggregation engine: duration
// math, the single-slot timer controller, entry filtering, summary
// statistics and CSV export. Everything except the controller is a pure
// function of its inputs.
package timetrack

import (
	"fmt"
	"time"
)

// ElapsedMinutes returns the number of whole minutes between start and
// end, rounded down. Callers must not pass end before start; a negative
// window clamps to 0.
func ElapsedMinutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// FormatDuration renders a minute count as "3ч 30м".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dч %dм", minutes/60, minutes%60)
}

// FormatClock renders total elapsed seconds as zero-padded HH:MM:SS.
// Used for the live timer display, recomputed once per second.
func FormatClock(elapsedSeconds int) string {
	h := elapsedSeconds / 3600
	m := elapsedSeconds % 3600 / 60
	s := elapsedSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
