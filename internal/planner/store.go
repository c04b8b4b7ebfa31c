package planner

import (
	"sort"
	"sync"

	"dayplan/internal/model"
)

// Store holds the date-keyed task buckets and the per-day completion flags.
// Every task lives in exactly one bucket, the day it was created under.
// Multi-day visibility is a read-time projection computed by EffectiveTasks,
// never a second write location.
//
// The interaction loop is the only writer; the mutex exists because the
// periodic autosave reads a snapshot from another goroutine.
type Store struct {
	mu        sync.RWMutex
	buckets   map[string][]model.Task
	completed map[string]map[string]bool
}

// Snapshot is the whole-value persistence form of a Store. The two maps mirror
// the planner's two persisted keys: tasks-by-date and completion-status.
type Snapshot struct {
	TasksByDate map[string][]model.Task    `json:"tasks-by-date"`
	Completion  map[string]map[string]bool `json:"completion-status"`
}

func NewStore() *Store {
	return &Store{
		buckets:   make(map[string][]model.Task),
		completed: make(map[string]map[string]bool),
	}
}

// Get returns the ordered task list owned by day. The returned slice is a
// copy; callers mutate through Put.
func (s *Store) Get(day model.Day) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.buckets[day.String()]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]model.Task, len(bucket))
	copy(out, bucket)
	return out
}

// Put replaces day's bucket wholesale. An empty list removes the bucket.
func (s *Store) Put(day model.Day, tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := day.String()
	if len(tasks) == 0 {
		delete(s.buckets, key)
		return
	}
	bucket := make([]model.Task, len(tasks))
	copy(bucket, tasks)
	s.buckets[key] = bucket
}

// Completion returns a copy of day's task-id -> done map.
func (s *Store) Completion(day model.Day) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags := s.completed[day.String()]
	out := make(map[string]bool, len(flags))
	for id, done := range flags {
		out[id] = done
	}
	return out
}

// SetCompletion upserts a single flag without disturbing the rest of the
// day's entries.
func (s *Store) SetCompletion(day model.Day, taskID string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := day.String()
	flags := s.completed[key]
	if flags == nil {
		flags = make(map[string]bool)
		s.completed[key] = flags
	}
	flags[taskID] = done
}

// ClearCompletion drops the flag for taskID on day, if present.
func (s *Store) ClearCompletion(day model.Day, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := day.String()
	flags := s.completed[key]
	if flags == nil {
		return
	}
	delete(flags, taskID)
	if len(flags) == 0 {
		delete(s.completed, key)
	}
}

// Days lists every day owning at least one task, in ascending calendar order.
// This is the store iteration order the span resolver relies on.
func (s *Store) Days() []model.Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.buckets))
	for key := range s.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]model.Day, 0, len(keys))
	for _, key := range keys {
		day, err := model.ParseDay(key)
		if err != nil {
			continue
		}
		out = append(out, day)
	}
	return out
}

// TaskCount returns the number of tasks owned by day.
func (s *Store) TaskCount(day model.Day) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[day.String()])
}

// CompletedCount returns how many flags on day are set true.
func (s *Store) CompletedCount(day model.Day) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, done := range s.completed[day.String()] {
		if done {
			n++
		}
	}
	return n
}

// AllTasks returns every stored task across all buckets in day order. Used by
// the quick-add suggestion scan and the archive view.
func (s *Store) AllTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.buckets))
	for key := range s.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]model.Task, 0)
	for _, key := range keys {
		out = append(out, s.buckets[key]...)
	}
	return out
}

// Snapshot copies the full store state for persistence.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		TasksByDate: make(map[string][]model.Task, len(s.buckets)),
		Completion:  make(map[string]map[string]bool, len(s.completed)),
	}
	for key, bucket := range s.buckets {
		tasks := make([]model.Task, len(bucket))
		copy(tasks, bucket)
		snap.TasksByDate[key] = tasks
	}
	for key, flags := range s.completed {
		m := make(map[string]bool, len(flags))
		for id, done := range flags {
			m[id] = done
		}
		snap.Completion[key] = m
	}
	return snap
}

// Restore replaces the store state with snap. Empty buckets and empty flag
// maps are dropped rather than kept as tombstones.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[string][]model.Task, len(snap.TasksByDate))
	s.completed = make(map[string]map[string]bool, len(snap.Completion))
	for key, bucket := range snap.TasksByDate {
		if len(bucket) == 0 {
			continue
		}
		tasks := make([]model.Task, len(bucket))
		copy(tasks, bucket)
		s.buckets[key] = tasks
	}
	for key, flags := range snap.Completion {
		if len(flags) == 0 {
			continue
		}
		m := make(map[string]bool, len(flags))
		for id, done := range flags {
			m[id] = done
		}
		s.completed[key] = m
	}
}
