package db

import (
	"database/sql"

	"github.com/xfce0/timedesk/internal/model"
)

// GetEntries returns all completed entries for a project in start order.
// The engine relies on this ordering staying stable across calls.
func (db *DB) GetEntries(projectID string) ([]model.TimeEntry, error) {
	rows, err := db.Query(`
		SELECT id, project_id, user_id, user_name, task_id, task_name,
		       description, started_at, ended_at, duration_min,
		       billable, hourly_rate, status, created_at
		FROM time_entries
		WHERE project_id = ?
		ORDER BY started_at, created_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertEntry persists a completed entry
func (db *DB) InsertEntry(e model.TimeEntry) error {
	_, err := db.Exec(`
		INSERT INTO time_entries (id, project_id, user_id, user_name, task_id, task_name,
		                          description, started_at, ended_at, duration_min,
		                          billable, hourly_rate, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ProjectID, e.UserID, e.UserName, e.TaskID, e.TaskName,
		e.Description, e.StartTime, e.EndTime, e.DurationMinutes,
		e.Billable, e.HourlyRate, e.Status, e.CreatedAt)
	return err
}

// DeleteEntry removes a completed entry
func (db *DB) DeleteEntry(projectID, entryID string) (bool, error) {
	res, err := db.Exec(`
		DELETE FROM time_entries WHERE id = ? AND project_id = ?
	`, entryID, projectID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanEntry(rows *sql.Rows) (model.TimeEntry, error) {
	var e model.TimeEntry
	err := rows.Scan(&e.ID, &e.ProjectID, &e.UserID, &e.UserName, &e.TaskID, &e.TaskName,
		&e.Description, &e.StartTime, &e.EndTime, &e.DurationMinutes,
		&e.Billable, &e.HourlyRate, &e.Status, &e.CreatedAt)
	return e, err
}
