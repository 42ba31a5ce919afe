package timetrack

import (
	"github.com/xfce0/timedesk/internal/model"
)

// Stats is a derived snapshot of a filtered entry collection. It is
// recomputed on every filter change and never persisted.
type Stats struct {
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	TotalAmount      float64 `json:"total_amount"`
	AvgHourlyRate    float64 `json:"avg_hourly_rate"`
	EntriesCount     int     `json:"entries_count"`

	// Hours grouped by user name, task label and calendar day
	// (YYYY-MM-DD). Map iteration order carries no meaning; consumers
	// sort at render time.
	ByUser map[string]float64 `json:"by_user"`
	ByTask map[string]float64 `json:"by_task"`
	ByDay  map[string]float64 `json:"by_day"`
}

// Aggregate computes the statistics snapshot for a filtered collection.
// Totals and mappings are identical for any ordering of the same entries.
func Aggregate(entries []model.TimeEntry) Stats {
	s := Stats{
		EntriesCount: len(entries),
		ByUser:       make(map[string]float64),
		ByTask:       make(map[string]float64),
		ByDay:        make(map[string]float64),
	}

	for i := range entries {
		e := &entries[i]
		hours := e.Hours()

		s.TotalHours += hours
		if e.Billable {
			s.BillableHours += hours
			s.TotalAmount += hours * e.HourlyRate
		}

		s.ByUser[e.UserName] += hours
		s.ByTask[e.TaskLabel()] += hours
		s.ByDay[e.Day()] += hours
	}

	s.NonBillableHours = s.TotalHours - s.BillableHours
	// Avoid NaN: no billable hours means no meaningful average.
	if s.BillableHours > 0 {
		s.AvgHourlyRate = s.TotalAmount / s.BillableHours
	}

	return s
}
