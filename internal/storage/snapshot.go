package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dayplan/internal/model"
	"dayplan/internal/planner"
)

// jsonSnapshot is the export shape: two top-level keys mapping ISO day
// strings to task lists and completion flags.
type jsonSnapshot struct {
	TasksByDate map[string][]jsonTask      `json:"tasks-by-date"`
	Completion  map[string]map[string]bool `json:"completion-status"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Time      string `json:"time,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
	Priority  string `json:"priority"`
	Recurring string `json:"recurring,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// WriteSnapshotFile exports a snapshot as JSON, written atomically via a temp
// file and rename.
func WriteSnapshotFile(path string, snap planner.Snapshot) error {
	out := jsonSnapshot{
		TasksByDate: make(map[string][]jsonTask, len(snap.TasksByDate)),
		Completion:  make(map[string]map[string]bool, len(snap.Completion)),
	}
	for dayKey, bucket := range snap.TasksByDate {
		tasks := make([]jsonTask, 0, len(bucket))
		for _, task := range bucket {
			recurring := ""
			if task.Cadence != model.CadenceNone {
				recurring = string(task.Cadence)
			}
			tasks = append(tasks, jsonTask{
				ID:        task.ID,
				Text:      task.Text,
				Time:      task.Time,
				DueDate:   task.Due.String(),
				Priority:  string(task.Priority),
				Recurring: recurring,
				CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339Nano),
			})
		}
		out.TasksByDate[dayKey] = tasks
	}
	for dayKey, flags := range snap.Completion {
		m := make(map[string]bool, len(flags))
		for id, done := range flags {
			m[id] = done
		}
		out.Completion[dayKey] = m
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshotFile imports a JSON export. A missing file yields an empty
// snapshot, matching a first run.
func ReadSnapshotFile(path string) (planner.Snapshot, error) {
	snap := planner.Snapshot{
		TasksByDate: make(map[string][]model.Task),
		Completion:  make(map[string]map[string]bool),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return planner.Snapshot{}, err
	}
	var in jsonSnapshot
	if err := json.Unmarshal(raw, &in); err != nil {
		return planner.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	for dayKey, tasks := range in.TasksByDate {
		bucket := make([]model.Task, 0, len(tasks))
		for _, jt := range tasks {
			task, convErr := jt.toModel()
			if convErr != nil {
				return planner.Snapshot{}, fmt.Errorf("task %s on %s: %w", jt.ID, dayKey, convErr)
			}
			bucket = append(bucket, task)
		}
		snap.TasksByDate[dayKey] = bucket
	}
	for dayKey, flags := range in.Completion {
		m := make(map[string]bool, len(flags))
		for id, done := range flags {
			m[id] = done
		}
		snap.Completion[dayKey] = m
	}
	return snap, nil
}

func (jt jsonTask) toModel() (model.Task, error) {
	out := model.Task{
		ID:       jt.ID,
		Text:     jt.Text,
		Time:     jt.Time,
		Priority: model.Priority(jt.Priority),
		Cadence:  model.CadenceNone,
	}
	if out.Priority == "" {
		out.Priority = model.PriorityMedium
	}
	if jt.Recurring != "" {
		out.Cadence = model.Cadence(jt.Recurring)
	}
	if jt.DueDate != "" {
		due, err := model.ParseDay(jt.DueDate)
		if err != nil {
			return model.Task{}, err
		}
		out.Due = due
	}
	if jt.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, jt.CreatedAt)
		if err != nil {
			return model.Task{}, fmt.Errorf("created_at: %w", err)
		}
		out.CreatedAt = createdAt
	}
	return out, nil
}
