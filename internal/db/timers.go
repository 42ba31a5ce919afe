package db

import (
	"database/sql"

	"github.com/xfce0/timedesk/internal/model"
)

// GetActiveTimer returns the project's running timer, nil when idle
func (db *DB) GetActiveTimer(projectID string) (*model.Timer, error) {
	row := db.QueryRow(`
		SELECT project_id, user_id, user_name, task_id, task_name,
		       description, billable, hourly_rate, started_at
		FROM active_timers WHERE project_id = ?
	`, projectID)

	var t model.Timer
	err := row.Scan(&t.ProjectID, &t.UserID, &t.UserName, &t.TaskID, &t.TaskName,
		&t.Description, &t.Billable, &t.HourlyRate, &t.StartTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveTimer stores a newly started timer. Fails on the primary key when a
// timer already occupies the project's slot.
func (db *DB) SaveTimer(t *model.Timer) error {
	_, err := db.Exec(`
		INSERT INTO active_timers (project_id, user_id, user_name, task_id, task_name,
		                           description, billable, hourly_rate, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ProjectID, t.UserID, t.UserName, t.TaskID, t.TaskName,
		t.Description, t.Billable, t.HourlyRate, t.StartTime)
	return err
}

// ClearTimer discards a running timer without recording an entry
func (db *DB) ClearTimer(projectID string) error {
	_, err := db.Exec(`DELETE FROM active_timers WHERE project_id = ?`, projectID)
	return err
}

// StopTimer persists a stop: the completed entry is inserted and the
// timer slot cleared in one transaction, so the database never holds a
// half-applied stop.
func (db *DB) StopTimer(projectID string, entry model.TimeEntry) error {
	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO time_entries (id, project_id, user_id, user_name, task_id, task_name,
			                          description, started_at, ended_at, duration_min,
			                          billable, hourly_rate, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.ProjectID, entry.UserID, entry.UserName, entry.TaskID, entry.TaskName,
			entry.Description, entry.StartTime, entry.EndTime, entry.DurationMinutes,
			entry.Billable, entry.HourlyRate, entry.Status, entry.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM active_timers WHERE project_id = ?`, projectID)
		return err
	})
}
