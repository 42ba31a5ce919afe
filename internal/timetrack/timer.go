package timetrack

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xfce0/timedesk/internal/model"
)

// Clock supplies wall time. Production code passes time.Now; tests pass
// a fixed function.
type Clock func() time.Time

// ValidateDraft checks the attribution fields shared by timer starts and
// manual entry creation.
func ValidateDraft(draft model.TimerDraft) error {
	if strings.TrimSpace(draft.Description) == "" {
		return ErrEmptyDescription
	}
	if draft.Billable && draft.HourlyRate < 0 {
		return ErrNegativeRate
	}
	return nil
}

// CompleteTimer materializes a timer into a stopped entry at the given
// instant. A sub-minute session is legal and records a zero duration.
func CompleteTimer(t *model.Timer, now time.Time) model.TimeEntry {
	return model.TimeEntry{
		ID:              uuid.New().String(),
		ProjectID:       t.ProjectID,
		UserID:          t.UserID,
		UserName:        t.UserName,
		TaskID:          t.TaskID,
		TaskName:        t.TaskName,
		Description:     t.Description,
		StartTime:       t.StartTime,
		EndTime:         now,
		DurationMinutes: ElapsedMinutes(t.StartTime, now),
		Billable:        t.Billable,
		HourlyRate:      t.HourlyRate,
		Status:          model.StatusStopped,
		CreatedAt:       now,
	}
}

// NewEntry validates and builds a manually logged entry. Unlike a timer
// stop, a manual entry must span at least one whole minute.
func NewEntry(projectID string, draft model.TimerDraft, start, end time.Time) (model.TimeEntry, error) {
	if err := ValidateDraft(draft); err != nil {
		return model.TimeEntry{}, err
	}
	if !end.After(start) {
		return model.TimeEntry{}, ErrInvalidDurationWindow
	}
	minutes := ElapsedMinutes(start, end)
	if minutes <= 0 {
		return model.TimeEntry{}, ErrInvalidDurationWindow
	}
	return model.TimeEntry{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		UserID:          draft.UserID,
		UserName:        draft.UserName,
		TaskID:          draft.TaskID,
		TaskName:        draft.TaskName,
		Description:     draft.Description,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		Billable:        draft.Billable,
		HourlyRate:      draft.HourlyRate,
		Status:          model.StatusStopped,
		CreatedAt:       end,
	}, nil
}

// Controller owns the single active timer of one panel session. Start and
// stop mutate the slot under one lock, so a stop either fully succeeds
// (slot cleared, entry returned) or fully fails (slot untouched).
// Sessions never share a controller across projects.
type Controller struct {
	mu        sync.Mutex
	now       Clock
	projectID string
	timer     *model.Timer
}

// NewController creates an idle controller for a project session.
func NewController(projectID string, now Clock) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{now: now, projectID: projectID}
}

// Resume seeds the controller with a timer loaded from storage.
func (c *Controller) Resume(t *model.Timer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = t
}

// Start begins a new timer from the draft at the controller's clock.
// Fails with ErrTimerRunning while a timer is active, leaving it
// untouched.
func (c *Controller) Start(draft model.TimerDraft) (*model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		return nil, ErrTimerRunning
	}
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	c.timer = &model.Timer{
		ProjectID:   c.projectID,
		UserID:      draft.UserID,
		UserName:    draft.UserName,
		TaskID:      draft.TaskID,
		TaskName:    draft.TaskName,
		Description: draft.Description,
		Billable:    draft.Billable,
		HourlyRate:  draft.HourlyRate,
		StartTime:   c.now(),
	}
	return c.timer, nil
}

// Stop converts the active timer into a completed entry and clears the
// slot. The caller is responsible for appending the entry to the
// collection and persisting it.
func (c *Controller) Stop() (model.TimeEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer == nil {
		return model.TimeEntry{}, ErrNoTimer
	}
	entry := CompleteTimer(c.timer, c.now())
	c.timer = nil
	return entry, nil
}

// Active returns the current timer, nil when idle.
func (c *Controller) Active() *model.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer
}

// Tick returns the clock display for the active timer at the given
// instant, "" when idle. Read-only; safe to invoke on any schedule.
func (c *Controller) Tick(now time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return ""
	}
	return FormatClock(int(now.Sub(c.timer.StartTime) / time.Second))
}

// Elapsed is Tick at the controller's own clock.
func (c *Controller) Elapsed() string {
	return c.Tick(c.now())
}
