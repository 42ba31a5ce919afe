package timetrack

import (
	"strings"
	"time"

	"github.com/xfce0/timedesk/internal/model"
)

// BillableFilter is the tri-state billable predicate.
type BillableFilter string

const (
	BillableAll  BillableFilter = "all"
	BillableOnly BillableFilter = "billable"
	BillableNone BillableFilter = "non-billable"
)

// Criteria is the conjunction of optional predicates narrowing an entry
// collection. The zero value matches everything. Criteria are value
// objects: applying the same criteria to the same collection is
// deterministic and idempotent.
type Criteria struct {
	// Query matches case-insensitively against description, user name and
	// task name; an entry passes if any of the three contains it.
	Query string
	// From and To bound StartTime inclusively. To is extended to the end
	// of its calendar day, so a plain date covers the whole day.
	From *time.Time
	To   *time.Time
	// User filters on exact user name; "" or "all" disables it.
	User string
	// Billable filters on the billable flag; "" or BillableAll disables it.
	Billable BillableFilter
}

// Apply returns the entries matching the criteria, preserving input
// order. Filtering is a stable subsequence selection, never a re-sort.
func Apply(entries []model.TimeEntry, c Criteria) []model.TimeEntry {
	out := make([]model.TimeEntry, 0, len(entries))
	for i := range entries {
		if c.matches(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}

func (c Criteria) matches(e *model.TimeEntry) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.UserName), q) &&
			!(e.TaskName != nil && strings.Contains(strings.ToLower(*e.TaskName), q)) {
			return false
		}
	}
	if c.From != nil && e.StartTime.Before(*c.From) {
		return false
	}
	if c.To != nil && e.StartTime.After(endOfDay(*c.To)) {
		return false
	}
	if c.User != "" && c.User != "all" && e.UserName != c.User {
		return false
	}
	switch c.Billable {
	case BillableOnly:
		if !e.Billable {
			return false
		}
	case BillableNone:
		if e.Billable {
			return false
		}
	}
	return true
}

// endOfDay returns the last representable instant of t's calendar date.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
