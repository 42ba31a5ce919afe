package timetrack

import (
	"errors"
	"testing"
	"time"

	"github.com/xfce0/timedesk/internal/model"
)

// fakeClock returns a Clock advancing under test control.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func draft() model.TimerDraft {
	return model.TimerDraft{
		UserID:      "u1",
		UserName:    "Анна",
		Description: "Вёрстка панели",
		Billable:    true,
		HourlyRate:  60,
	}
}

func TestStartStoresDraftAtClockTime(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	timer, err := c.Start(draft())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !timer.StartTime.Equal(clock.now) {
		t.Errorf("StartTime = %v, want %v", timer.StartTime, clock.now)
	}
	if timer.ProjectID != "p1" {
		t.Errorf("ProjectID = %q, want %q", timer.ProjectID, "p1")
	}
	if c.Active() == nil {
		t.Error("Active() = nil after Start")
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	first, err := c.Start(draft())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	startedAt := first.StartTime

	clock.Advance(10 * time.Minute)
	if _, err := c.Start(draft()); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("second Start error = %v, want ErrTimerRunning", err)
	}

	// The existing timer must be untouched by the failed start.
	if got := c.Active(); got == nil || !got.StartTime.Equal(startedAt) {
		t.Errorf("active timer changed after rejected start: %+v", got)
	}
}

func TestStartEmptyDescriptionFails(t *testing.T) {
	c := NewController("p1", newFakeClock().Now)

	d := draft()
	d.Description = "   "
	if _, err := c.Start(d); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("Start error = %v, want ErrEmptyDescription", err)
	}
	if c.Active() != nil {
		t.Error("timer slot filled after rejected start")
	}
}

func TestStartNegativeRateFails(t *testing.T) {
	c := NewController("p1", newFakeClock().Now)

	d := draft()
	d.HourlyRate = -5
	if _, err := c.Start(d); !errors.Is(err, ErrNegativeRate) {
		t.Fatalf("Start error = %v, want ErrNegativeRate", err)
	}
}

func TestStopProducesEntryAndClearsSlot(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	if _, err := c.Start(draft()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(125 * time.Second)

	entry, err := c.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if entry.DurationMinutes != 2 {
		t.Errorf("DurationMinutes = %d, want 2 (floor of 125s)", entry.DurationMinutes)
	}
	if entry.Status != model.StatusStopped {
		t.Errorf("Status = %q, want %q", entry.Status, model.StatusStopped)
	}
	if !entry.EndTime.Equal(clock.now) {
		t.Errorf("EndTime = %v, want %v", entry.EndTime, clock.now)
	}
	if entry.ID == "" {
		t.Error("entry ID should not be empty")
	}
	if c.Active() != nil {
		t.Error("timer slot not cleared after Stop")
	}
}

func TestStopSubMinuteRecordsZeroDuration(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	if _, err := c.Start(draft()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(40 * time.Second)

	entry, err := c.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if entry.DurationMinutes != 0 {
		t.Errorf("DurationMinutes = %d, want 0 for a sub-minute session", entry.DurationMinutes)
	}
}

func TestStopWithoutTimerFails(t *testing.T) {
	c := NewController("p1", newFakeClock().Now)
	if _, err := c.Stop(); !errors.Is(err, ErrNoTimer) {
		t.Fatalf("Stop error = %v, want ErrNoTimer", err)
	}
}

func TestTick(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	if got := c.Tick(clock.now); got != "" {
		t.Errorf("Tick while idle = %q, want empty", got)
	}

	if _, err := c.Start(draft()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if got := c.Tick(clock.now.Add(7325 * time.Second)); got != "02:02:05" {
		t.Errorf("Tick = %q, want 02:02:05", got)
	}

	// Tick has no side effects: the timer is still running.
	if c.Active() == nil {
		t.Error("Tick cleared the timer")
	}
}

func TestResumeSeedsSlot(t *testing.T) {
	clock := newFakeClock()
	c := NewController("p1", clock.Now)

	c.Resume(&model.Timer{ProjectID: "p1", Description: "загрузка", StartTime: clock.now.Add(-time.Hour)})
	if _, err := c.Start(draft()); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("Start after Resume error = %v, want ErrTimerRunning", err)
	}
	if got := c.Tick(clock.now); got != "01:00:00" {
		t.Errorf("Tick = %q, want 01:00:00", got)
	}
}

func TestNewEntryValidation(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		edit  func(*model.TimerDraft)
		start time.Time
		end   time.Time
		want  error
	}{
		{"valid", nil, start, start.Add(90 * time.Minute), nil},
		{"empty description", func(d *model.TimerDraft) { d.Description = "" }, start, start.Add(time.Hour), ErrEmptyDescription},
		{"end equals start", nil, start, start, ErrInvalidDurationWindow},
		{"end before start", nil, start, start.Add(-time.Minute), ErrInvalidDurationWindow},
		{"sub-minute window", nil, start, start.Add(30 * time.Second), ErrInvalidDurationWindow},
		{"negative rate", func(d *model.TimerDraft) { d.HourlyRate = -1 }, start, start.Add(time.Hour), ErrNegativeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft()
			if tt.edit != nil {
				tt.edit(&d)
			}
			entry, err := NewEntry("p1", d, tt.start, tt.end)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewEntry error = %v, want %v", err, tt.want)
			}
			if err == nil && entry.DurationMinutes != 90 {
				t.Errorf("DurationMinutes = %d, want 90", entry.DurationMinutes)
			}
		})
	}
}
