package planner

import "dayplan/internal/model"

// Entry is one line of a day's effective view. OriginalDay is set only when
// the task is projected from another day's bucket; mutations must be routed
// there.
type Entry struct {
	Task        model.Task
	OriginalDay model.Day // zero for direct tasks
}

// Spanning reports whether the entry is a projection from another day.
func (e Entry) Spanning() bool { return !e.OriginalDay.IsZero() }

// OwnerOr returns the day owning the entry's task, defaulting to viewed for
// direct tasks.
func (e Entry) OwnerOr(viewed model.Day) model.Day {
	if e.Spanning() {
		return e.OriginalDay
	}
	return viewed
}

// EffectiveTasks computes the task list visible on day: the day's own bucket
// first, then every task owned by another day whose [owner, due] range covers
// day, in ascending owner-day order. Comparison is by calendar day only.
//
// The scan is linear in the total number of stored tasks, which is fine for a
// single person's planner. Callers wanting a stable display order re-sort;
// see SortForDisplay.
func (s *Store) EffectiveTasks(day model.Day) []Entry {
	out := make([]Entry, 0)
	for _, task := range s.Get(day) {
		out = append(out, Entry{Task: task})
	}
	for _, owner := range s.Days() {
		if owner.Equal(day) {
			continue
		}
		for _, task := range s.Get(owner) {
			if task.Due.IsZero() {
				continue
			}
			if day.In(owner, task.Due) {
				out = append(out, Entry{Task: task, OriginalDay: owner})
			}
		}
	}
	return out
}

// findEffective locates taskID in day's effective view. This is the lookup
// every mutation uses: a task must be visible on the viewed day to be
// editable.
func (s *Store) findEffective(day model.Day, taskID string) (Entry, bool) {
	for _, entry := range s.EffectiveTasks(day) {
		if entry.Task.ID == taskID {
			return entry, true
		}
	}
	return Entry{}, false
}

// SpanOf returns the inclusive day range a task's completion state is
// synchronized over: [owner, due] when a due day is set, else just owner.
func SpanOf(task model.Task, owner model.Day) []model.Day {
	if task.Due.IsZero() || !task.Due.After(owner) {
		return []model.Day{owner}
	}
	return model.DaysInclusive(owner, task.Due)
}
