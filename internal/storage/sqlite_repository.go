package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dayplan/internal/model"
	"dayplan/internal/planner"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads the full planner state. Bucket order is the persisted position
// column, which is what drag-reorder edits.
func (r *SQLiteRepository) Load(ctx context.Context) (planner.Snapshot, error) {
	snap := planner.Snapshot{
		TasksByDate: make(map[string][]model.Task),
		Completion:  make(map[string]map[string]bool),
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT day, id, text, time_of_day, due_day, priority, cadence, created_at
		FROM tasks ORDER BY day ASC, position ASC`)
	if err != nil {
		return planner.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var dayKey string
		task, scanErr := scanTask(rows, &dayKey)
		if scanErr != nil {
			return planner.Snapshot{}, scanErr
		}
		snap.TasksByDate[dayKey] = append(snap.TasksByDate[dayKey], task)
	}
	if err := rows.Err(); err != nil {
		return planner.Snapshot{}, err
	}

	flagRows, err := r.db.QueryContext(ctx, `SELECT day, task_id, done FROM completion`)
	if err != nil {
		return planner.Snapshot{}, err
	}
	defer flagRows.Close()
	for flagRows.Next() {
		var dayKey, taskID string
		var done int
		if err := flagRows.Scan(&dayKey, &taskID, &done); err != nil {
			return planner.Snapshot{}, err
		}
		flags := snap.Completion[dayKey]
		if flags == nil {
			flags = make(map[string]bool)
			snap.Completion[dayKey] = flags
		}
		flags[taskID] = done == 1
	}
	return snap, flagRows.Err()
}

// Replace rewrites both tables from the snapshot in one transaction, the
// on-disk form of the planner's whole-value state replacement.
func (r *SQLiteRepository) Replace(ctx context.Context, snap planner.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM completion`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}

	dayKeys := make([]string, 0, len(snap.TasksByDate))
	for key := range snap.TasksByDate {
		dayKeys = append(dayKeys, key)
	}
	sort.Strings(dayKeys)
	for _, dayKey := range dayKeys {
		for position, task := range snap.TasksByDate[dayKey] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (day, position, id, text, time_of_day, due_day, priority, cadence, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				dayKey, position, task.ID, task.Text, nullString(task.Time), nullString(task.Due.String()),
				string(task.Priority), string(task.Cadence), task.CreatedAt.UTC().Format(sqliteTimeLayout),
			); err != nil {
				return err
			}
		}
	}

	for dayKey, flags := range snap.Completion {
		for taskID, done := range flags {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO completion (day, task_id, done) VALUES (?, ?, ?)`,
				dayKey, taskID, boolInt(done),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, dayKey *string) (model.Task, error) {
	var out model.Task
	var timeOfDay sql.NullString
	var dueDay sql.NullString
	var priority, cadence, created string
	if err := s.Scan(dayKey, &out.ID, &out.Text, &timeOfDay, &dueDay, &priority, &cadence, &created); err != nil {
		return model.Task{}, err
	}
	if timeOfDay.Valid {
		out.Time = timeOfDay.String
	}
	if dueDay.Valid && dueDay.String != "" {
		due, err := model.ParseDay(dueDay.String)
		if err != nil {
			return model.Task{}, err
		}
		out.Due = due
	}
	out.Priority = model.Priority(priority)
	out.Cadence = model.Cadence(cadence)
	createdAt, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return model.Task{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}
