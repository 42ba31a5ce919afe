package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/xfce0/timedesk/internal/model"
)

// GetProjects returns all non-archived projects with entry totals
func (db *DB) GetProjects() ([]model.Project, error) {
	rows, err := db.Query(`
		SELECT p.id, p.name, p.archived, p.created_at, p.updated_at,
		       COUNT(te.id), COALESCE(SUM(te.duration_min), 0)
		FROM projects p
		LEFT JOIN time_entries te ON te.project_id = p.id
		WHERE p.archived = 0
		GROUP BY p.id
		ORDER BY p.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
			&p.EntryCount, &p.TotalMinutes); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by ID, nil when not found
func (db *DB) GetProject(id string) (*model.Project, error) {
	row := db.QueryRow(`
		SELECT id, name, archived, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)

	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.Archived, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a new project
func (db *DB) CreateProject(name string) (*model.Project, error) {
	now := time.Now()
	p := &model.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.Exec(`
		INSERT INTO projects (id, name, archived, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`, p.ID, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ArchiveProject hides a project from listings without deleting its entries
func (db *DB) ArchiveProject(id string) error {
	_, err := db.Exec(`
		UPDATE projects SET archived = 1, updated_at = ? WHERE id = ?
	`, time.Now(), id)
	return err
}
