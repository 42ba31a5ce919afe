package timetrack

import (
	"reflect"
	"testing"
	"time"

	"github.com/xfce0/timedesk/internal/model"
)

func strptr(s string) *string { return &s }

// filterFixture returns three entries across two users and two days.
func filterFixture() []model.TimeEntry {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 14, 30, 0, 0, time.UTC)

	return []model.TimeEntry{
		{
			ID: "e1", UserName: "Анна", TaskName: strptr("Лендинг"),
			Description: "Вёрстка главной страницы",
			StartTime:   day1, EndTime: day1.Add(210 * time.Minute),
			DurationMinutes: 210, Billable: true, HourlyRate: 60,
		},
		{
			ID: "e2", UserName: "Анна",
			Description: "Созвон с заказчиком",
			StartTime:   day1.Add(5 * time.Hour), EndTime: day1.Add(5*time.Hour + 90*time.Minute),
			DurationMinutes: 90, Billable: false, HourlyRate: 60,
		},
		{
			ID: "e3", UserName: "Борис", TaskName: strptr("Интеграция CRM"),
			Description: "Настройка вебхуков",
			StartTime:   day2, EndTime: day2.Add(180 * time.Minute),
			DurationMinutes: 180, Billable: true, HourlyRate: 55,
		},
	}
}

func ids(entries []model.TimeEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestApplyZeroCriteriaKeepsOrder(t *testing.T) {
	entries := filterFixture()
	got := Apply(entries, Criteria{})
	if !reflect.DeepEqual(ids(got), []string{"e1", "e2", "e3"}) {
		t.Errorf("zero criteria returned %v", ids(got))
	}
}

func TestApplyTextQuery(t *testing.T) {
	entries := filterFixture()

	tests := []struct {
		query string
		want  []string
	}{
		{"вёрстка", []string{"e1"}},         // description, case-insensitive
		{"анна", []string{"e1", "e2"}},      // user name
		{"crm", []string{"e3"}},             // task name
		{"ничего такого", []string{}},       // no match
		{"  ", []string{"e1", "e2", "e3"}},  // blank query disables the predicate
	}

	for _, tt := range tests {
		got := Apply(entries, Criteria{Query: tt.query})
		if !reflect.DeepEqual(ids(got), tt.want) {
			t.Errorf("Query %q returned %v, want %v", tt.query, ids(got), tt.want)
		}
	}
}

func TestApplyDateRange(t *testing.T) {
	entries := filterFixture()

	from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	got := Apply(entries, Criteria{From: &from})
	if !reflect.DeepEqual(ids(got), []string{"e3"}) {
		t.Errorf("From filter returned %v, want [e3]", ids(got))
	}

	// To is end-of-day inclusive: a bound on the 10th keeps the 14:00
	// entry of the 10th even though the bound's time component is 00:00.
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got = Apply(entries, Criteria{To: &to})
	if !reflect.DeepEqual(ids(got), []string{"e1", "e2"}) {
		t.Errorf("To filter returned %v, want [e1 e2]", ids(got))
	}

	// Both bounds on the same date select exactly that day.
	got = Apply(entries, Criteria{From: &from, To: &from})
	if !reflect.DeepEqual(ids(got), []string{"e3"}) {
		t.Errorf("same-day range returned %v, want [e3]", ids(got))
	}
}

func TestApplyUserFilter(t *testing.T) {
	entries := filterFixture()

	got := Apply(entries, Criteria{User: "Борис"})
	if !reflect.DeepEqual(ids(got), []string{"e3"}) {
		t.Errorf("user filter returned %v, want [e3]", ids(got))
	}

	// "all" and "" both disable the predicate.
	for _, user := range []string{"all", ""} {
		got = Apply(entries, Criteria{User: user})
		if len(got) != 3 {
			t.Errorf("User=%q returned %d entries, want 3", user, len(got))
		}
	}
}

func TestApplyBillableFilter(t *testing.T) {
	entries := filterFixture()

	got := Apply(entries, Criteria{Billable: BillableOnly})
	if !reflect.DeepEqual(ids(got), []string{"e1", "e3"}) {
		t.Errorf("billable filter returned %v, want [e1 e3]", ids(got))
	}

	got = Apply(entries, Criteria{Billable: BillableNone})
	if !reflect.DeepEqual(ids(got), []string{"e2"}) {
		t.Errorf("non-billable filter returned %v, want [e2]", ids(got))
	}
}

func TestApplyConjunction(t *testing.T) {
	entries := filterFixture()

	got := Apply(entries, Criteria{User: "Анна", Billable: BillableOnly})
	if !reflect.DeepEqual(ids(got), []string{"e1"}) {
		t.Errorf("conjunction returned %v, want [e1]", ids(got))
	}
}

func TestApplyIdempotent(t *testing.T) {
	entries := filterFixture()
	c := Criteria{Query: "а", Billable: BillableOnly}

	once := Apply(entries, c)
	twice := Apply(once, c)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("Apply not idempotent: %v then %v", ids(once), ids(twice))
	}
}
