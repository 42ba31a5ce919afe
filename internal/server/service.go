// Package server exposes the time-tracking panel over HTTP so other
// front-ends can drive the same engine and storage.
package server

import (
	"strings"
	"time"

	"github.com/xfce0/timedesk/internal/db"
	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/timetrack"
)

// Service provides the API business logic over the store and the engine.
type Service struct {
	store *db.DB
	now   timetrack.Clock
}

// NewService creates a new service backed by the given store.
func NewService(store *db.DB) *Service {
	return &Service{store: store, now: time.Now}
}

// --- Projects ---

// ListProjects returns all non-archived projects.
func (s *Service) ListProjects() ([]model.Project, error) {
	return s.store.GetProjects()
}

// CreateProject creates a new project.
func (s *Service) CreateProject(name string) (*model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProjectName
	}
	return s.store.CreateProject(name)
}

func (s *Service) requireProject(projectID string) error {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProjectNotFound
	}
	return nil
}

// --- Entries ---

// Entries returns the project's entries narrowed by the criteria, in
// stored order.
func (s *Service) Entries(projectID string, c timetrack.Criteria) ([]model.TimeEntry, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	entries, err := s.store.GetEntries(projectID)
	if err != nil {
		return nil, err
	}
	return timetrack.Apply(entries, c), nil
}

// CreateEntry validates and persists a manually logged entry.
func (s *Service) CreateEntry(projectID string, draft model.TimerDraft, start, end time.Time) (*model.TimeEntry, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	entry, err := timetrack.NewEntry(projectID, draft, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertEntry(entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes a completed entry.
func (s *Service) DeleteEntry(projectID, entryID string) error {
	if err := s.requireProject(projectID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteEntry(projectID, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

// --- Timer ---

// ActiveTimer returns the project's running timer, nil when idle.
func (s *Service) ActiveTimer(projectID string) (*model.Timer, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	return s.store.GetActiveTimer(projectID)
}

// StartTimer starts the project's timer. The existing timer, if any, is
// left untouched on failure.
func (s *Service) StartTimer(projectID string, draft model.TimerDraft) (*model.Timer, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	if err := timetrack.ValidateDraft(draft); err != nil {
		return nil, err
	}

	existing, err := s.store.GetActiveTimer(projectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, timetrack.ErrTimerRunning
	}

	timer := &model.Timer{
		ProjectID:   projectID,
		UserID:      draft.UserID,
		UserName:    draft.UserName,
		TaskID:      draft.TaskID,
		TaskName:    draft.TaskName,
		Description: draft.Description,
		Billable:    draft.Billable,
		HourlyRate:  draft.HourlyRate,
		StartTime:   s.now(),
	}
	if err := s.store.SaveTimer(timer); err != nil {
		return nil, err
	}
	return timer, nil
}

// StopTimer materializes the running timer into an entry, persisting the
// insert and the slot clear as one transaction.
func (s *Service) StopTimer(projectID string) (*model.TimeEntry, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	timer, err := s.store.GetActiveTimer(projectID)
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, timetrack.ErrNoTimer
	}

	entry := timetrack.CompleteTimer(timer, s.now())
	if err := s.store.StopTimer(projectID, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// --- Reports ---

// Stats aggregates the filtered entries into a statistics snapshot.
func (s *Service) Stats(projectID string, c timetrack.Criteria) (*timetrack.Stats, error) {
	entries, err := s.Entries(projectID, c)
	if err != nil {
		return nil, err
	}
	stats := timetrack.Aggregate(entries)
	return &stats, nil
}

// ExportCSV renders the filtered entries as the fixed CSV table.
func (s *Service) ExportCSV(projectID string, c timetrack.Criteria) (string, error) {
	entries, err := s.Entries(projectID, c)
	if err != nil {
		return "", err
	}
	return timetrack.ToCSV(entries)
}
