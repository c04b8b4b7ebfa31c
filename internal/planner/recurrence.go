package planner

import (
	"time"

	"dayplan/internal/model"
)

// Occurrences lists the future occurrence days for a recurring task: fixed
// strides from the base day (the due day when set, else today) up to a
// horizon of three calendar months from now. The horizon is computed once,
// from now, independent of the task's own dates. Monthly means a flat 30-day
// stride.
func Occurrences(task model.Task, now time.Time) []model.Day {
	stride := task.Cadence.StrideDays()
	if stride == 0 {
		return nil
	}
	horizon := model.DayOf(now.AddDate(0, 3, 0))
	base := task.Due
	if base.IsZero() {
		base = model.DayOf(now)
	}
	out := make([]model.Day, 0)
	for day := base.AddDays(stride); !day.After(horizon); day = day.AddDays(stride) {
		out = append(out, day)
	}
	return out
}

// materialize inserts one independent record per occurrence, each with a
// fresh id, the occurrence day as both owner and due day, and no link back to
// the generating task. Calling Add twice with the same recurring draft
// produces two chains; generation is deliberately not idempotent.
func (e *Engine) materialize(task model.Task) int {
	now := e.now()
	days := Occurrences(task, now)
	for _, day := range days {
		occurrence := model.Task{
			ID:        e.newID(),
			Text:      task.Text,
			Time:      task.Time,
			Due:       day,
			Priority:  task.Priority,
			Cadence:   task.Cadence,
			CreatedAt: now,
		}
		e.store.Put(day, append(e.store.Get(day), occurrence))
	}
	return len(days)
}
