package planner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"dayplan/internal/log"
	"dayplan/internal/model"
)

// Saver receives a full snapshot after every committed mutation. A failed
// save is logged and otherwise ignored; in-memory and persisted state may
// drift until the next successful write.
type Saver interface {
	Save(Snapshot) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(Snapshot) error

func (f SaverFunc) Save(snap Snapshot) error { return f(snap) }

// Engine applies all task mutations. Update, Delete and Toggle locate a task
// by scanning the effective view of the day the caller is looking at, so a
// task must be visible on that day to be editable; a lookup miss is a silent
// no-op, never an error.
type Engine struct {
	store *Store
	saver Saver
	now   func() time.Time
	newID func() string
}

func NewEngine(store *Store, saver Saver) *Engine {
	return &Engine{
		store: store,
		saver: saver,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (e *Engine) Store() *Store { return e.store }

// Add creates a task in day's bucket from draft and, when the draft carries a
// recurrence cadence, materializes its future occurrences synchronously.
func (e *Engine) Add(day model.Day, draft model.Draft) (model.Task, error) {
	draft = draft.Normalize()
	task := model.Task{
		ID:        e.newID(),
		Text:      draft.Text,
		Time:      draft.Time,
		Due:       draft.Due,
		Priority:  draft.Priority,
		Cadence:   draft.Cadence,
		CreatedAt: e.now(),
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	e.store.Put(day, append(e.store.Get(day), task))
	if task.Cadence != model.CadenceNone {
		e.materialize(task)
	}
	e.commit()
	return task, nil
}

// Update rewrites the text of the task identified by taskID, editing the
// record inside its owning bucket even when it is viewed as a spanning task.
// Empty text after trimming is an implicit delete. Returns false when the
// task is not visible on viewDay.
func (e *Engine) Update(viewDay model.Day, taskID, newText string) bool {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return e.Delete(viewDay, taskID)
	}
	entry, found := e.store.findEffective(viewDay, taskID)
	if !found {
		return false
	}
	owner := entry.OwnerOr(viewDay)
	bucket := e.store.Get(owner)
	for i := range bucket {
		if bucket[i].ID == taskID {
			bucket[i].Text = newText
			e.store.Put(owner, bucket)
			e.commit()
			return true
		}
	}
	return false
}

// Delete removes the task from its owning bucket and clears its completion
// flags across the task's entire span, not just the viewed day.
func (e *Engine) Delete(viewDay model.Day, taskID string) bool {
	entry, found := e.store.findEffective(viewDay, taskID)
	if !found {
		return false
	}
	owner := entry.OwnerOr(viewDay)
	bucket := e.store.Get(owner)
	kept := make([]model.Task, 0, len(bucket))
	for _, task := range bucket {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(bucket) {
		return false
	}
	e.store.Put(owner, kept)
	for _, day := range SpanOf(entry.Task, owner) {
		e.store.ClearCompletion(day, taskID)
	}
	e.commit()
	return true
}

// Toggle sets the completion flag. A task with a due day has one conceptual
// completion state synchronized over every day of [owner, due]; a task
// without one is completed per viewed day only.
func (e *Engine) Toggle(viewDay model.Day, taskID string, done bool) bool {
	entry, found := e.store.findEffective(viewDay, taskID)
	if !found {
		return false
	}
	owner := entry.OwnerOr(viewDay)
	if entry.Task.Due.IsZero() {
		e.store.SetCompletion(viewDay, taskID, done)
	} else {
		for _, day := range SpanOf(entry.Task, owner) {
			e.store.SetCompletion(day, taskID, done)
		}
	}
	e.commit()
	return true
}

// Reorder replaces day's bucket with its own tasks in the supplied id order.
// Only direct tasks are reorderable; the order must name each of them exactly
// once or the call is a no-op.
func (e *Engine) Reorder(day model.Day, orderedIDs []string) bool {
	bucket := e.store.Get(day)
	if len(orderedIDs) != len(bucket) {
		return false
	}
	byID := make(map[string]model.Task, len(bucket))
	for _, task := range bucket {
		byID[task.ID] = task
	}
	next := make([]model.Task, 0, len(bucket))
	for _, id := range orderedIDs {
		task, ok := byID[id]
		if !ok {
			return false
		}
		next = append(next, task)
		delete(byID, id)
	}
	e.store.Put(day, next)
	e.commit()
	return true
}

func (e *Engine) commit() {
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(e.store.Snapshot()); err != nil {
		log.Error("persist planner state", err)
	}
}
