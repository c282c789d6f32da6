package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/models"
)

// CreateTask records a new background task. The generated row ID is
// written back.
func (db *DB) CreateTask(t *models.Task) error {
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	res, err := db.conn.Exec(`
		INSERT INTO tasks (task_id, task_name, task_file_name, status, date_created, date_started, date_done, result, acknowledged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.TaskID, t.TaskName, t.TaskFileName, t.Status, t.DateCreated, t.DateStarted, t.DateDone, t.Result, t.Acknowledged)
	if err != nil {
		return fmt.Errorf("store: insert task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// UpdateTaskStatus transitions a task identified by its task ID, recording
// start/completion timestamps and the result message.
func (db *DB) UpdateTaskStatus(taskID, status, result string) error {
	now := time.Now().UTC()
	var started, done any
	switch status {
	case models.TaskStarted:
		started = now
	case models.TaskSuccess, models.TaskFailure:
		done = now
	}
	res, err := db.conn.Exec(`
		UPDATE tasks SET status = ?, result = ?,
			date_started = COALESCE(?, date_started),
			date_done = COALESCE(?, date_done)
		WHERE task_id = ?
	`, status, result, started, done, taskID)
	if err != nil {
		return fmt.Errorf("store: update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AcknowledgeTask marks a task as acknowledged by the frontend.
func (db *DB) AcknowledgeTask(id int64) error {
	res, err := db.conn.Exec(`UPDATE tasks SET acknowledged = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: acknowledge task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListTasks returns tasks newest-first. When unackedOnly is set, tasks the
// frontend already acknowledged are skipped.
func (db *DB) ListTasks(unackedOnly bool) ([]models.Task, error) {
	q := `SELECT id, task_id, task_name, task_file_name, status, date_created, date_started, date_done, result, acknowledged
		FROM tasks`
	if unackedOnly {
		q += ` WHERE acknowledged = 0`
	}
	q += ` ORDER BY date_created DESC`

	rows, err := db.conn.Query(q)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		var started, done sql.NullTime
		if err := rows.Scan(&t.ID, &t.TaskID, &t.TaskName, &t.TaskFileName, &t.Status,
			&t.DateCreated, &started, &done, &t.Result, &t.Acknowledged); err != nil {
			return nil, err
		}
		if started.Valid {
			t.DateStarted = &started.Time
		}
		if done.Valid {
			t.DateDone = &done.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTask returns one task by its task ID.
func (db *DB) GetTask(taskID string) (*models.Task, error) {
	var t models.Task
	var started, done sql.NullTime
	err := db.conn.QueryRow(`
		SELECT id, task_id, task_name, task_file_name, status, date_created, date_started, date_done, result, acknowledged
		FROM tasks WHERE task_id = ?
	`, taskID).Scan(&t.ID, &t.TaskID, &t.TaskName, &t.TaskFileName, &t.Status,
		&t.DateCreated, &started, &done, &t.Result, &t.Acknowledged)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	if started.Valid {
		t.DateStarted = &started.Time
	}
	if done.Valid {
		t.DateDone = &done.Time
	}
	return &t, nil
}
