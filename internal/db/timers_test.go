package db

import (
	"testing"
	"time"

	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/timetrack"
)

func testTimer(projectID string, startedAt time.Time) *model.Timer {
	return &model.Timer{
		ProjectID:   projectID,
		UserID:      "u1",
		UserName:    "Анна",
		Description: "Вёрстка панели",
		Billable:    true,
		HourlyRate:  60,
		StartTime:   startedAt,
	}
}

func TestTimerSlotRoundTrip(t *testing.T) {
	database := openTestDB(t)
	p, _ := database.CreateProject("CRM")

	idle, err := database.GetActiveTimer(p.ID)
	if err != nil {
		t.Fatalf("GetActiveTimer failed: %v", err)
	}
	if idle != nil {
		t.Errorf("expected nil timer for fresh project, got %+v", idle)
	}

	startedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := database.SaveTimer(testTimer(p.ID, startedAt)); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}

	got, err := database.GetActiveTimer(p.ID)
	if err != nil {
		t.Fatalf("GetActiveTimer failed: %v", err)
	}
	if got == nil || !got.StartTime.Equal(startedAt) {
		t.Errorf("GetActiveTimer = %+v", got)
	}
}

// The primary key on active_timers enforces the single-timer invariant
// even if two sessions race past the application-level check.
func TestSecondTimerRejectedBySchema(t *testing.T) {
	database := openTestDB(t)
	p, _ := database.CreateProject("CRM")

	startedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := database.SaveTimer(testTimer(p.ID, startedAt)); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}
	if err := database.SaveTimer(testTimer(p.ID, startedAt.Add(time.Minute))); err == nil {
		t.Fatal("second SaveTimer for the same project should fail")
	}

	// A timer on a different project is unaffected.
	p2, _ := database.CreateProject("Лендинг")
	if err := database.SaveTimer(testTimer(p2.ID, startedAt)); err != nil {
		t.Fatalf("SaveTimer on second project failed: %v", err)
	}
}

func TestStopTimerIsAtomic(t *testing.T) {
	database := openTestDB(t)
	p, _ := database.CreateProject("CRM")

	startedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	timer := testTimer(p.ID, startedAt)
	if err := database.SaveTimer(timer); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}

	entry := timetrack.CompleteTimer(timer, startedAt.Add(125*time.Second))
	if err := database.StopTimer(p.ID, entry); err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}

	// Slot cleared and entry recorded together.
	cleared, err := database.GetActiveTimer(p.ID)
	if err != nil {
		t.Fatalf("GetActiveTimer failed: %v", err)
	}
	if cleared != nil {
		t.Errorf("timer slot not cleared: %+v", cleared)
	}

	entries, err := database.GetEntries(p.ID)
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].DurationMinutes != 2 {
		t.Errorf("DurationMinutes = %d, want 2", entries[0].DurationMinutes)
	}
	if entries[0].Status != model.StatusStopped {
		t.Errorf("Status = %q, want %q", entries[0].Status, model.StatusStopped)
	}
}

func TestStopTimerRollsBackOnConflict(t *testing.T) {
	database := openTestDB(t)
	p, _ := database.CreateProject("CRM")

	startedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	timer := testTimer(p.ID, startedAt)
	if err := database.SaveTimer(timer); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}

	entry := timetrack.CompleteTimer(timer, startedAt.Add(time.Hour))
	if err := database.StopTimer(p.ID, entry); err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}

	// Re-save the timer and replay the same entry: the duplicate id makes
	// the insert fail, and the slot must survive the rollback.
	if err := database.SaveTimer(timer); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}
	if err := database.StopTimer(p.ID, entry); err == nil {
		t.Fatal("replaying a stop with a duplicate entry id should fail")
	}

	still, err := database.GetActiveTimer(p.ID)
	if err != nil {
		t.Fatalf("GetActiveTimer failed: %v", err)
	}
	if still == nil {
		t.Error("timer slot cleared despite failed stop")
	}
}

func TestClearTimer(t *testing.T) {
	database := openTestDB(t)
	p, _ := database.CreateProject("CRM")

	if err := database.SaveTimer(testTimer(p.ID, time.Now())); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}
	if err := database.ClearTimer(p.ID); err != nil {
		t.Fatalf("ClearTimer failed: %v", err)
	}

	got, err := database.GetActiveTimer(p.ID)
	if err != nil {
		t.Fatalf("GetActiveTimer failed: %v", err)
	}
	if got != nil {
		t.Errorf("timer not cleared: %+v", got)
	}

	// No entry was recorded for the discarded timer.
	entries, _ := database.GetEntries(p.ID)
	if len(entries) != 0 {
		t.Errorf("discarded timer produced %d entries", len(entries))
	}
}
