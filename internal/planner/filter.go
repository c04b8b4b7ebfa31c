package planner

import (
	"sort"
	"strings"

	"dayplan/internal/model"
)

type Status string

const (
	StatusAll     Status = "all"
	StatusDone    Status = "done"
	StatusPending Status = "pending"
)

// Filter narrows a day's effective view for display. The zero value matches
// everything.
type Filter struct {
	Search   string
	Priority model.Priority // empty means all
	Status   Status
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Priority == "" && (f.Status == "" || f.Status == StatusAll)
}

// Apply keeps the entries matching the filter. done carries the viewed day's
// completion flags for status matching.
func (f Filter) Apply(entries []Entry, done map[string]bool) []Entry {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if search != "" && !strings.Contains(strings.ToLower(entry.Task.Text), search) {
			continue
		}
		if f.Priority != "" && entry.Task.Priority != f.Priority {
			continue
		}
		switch f.Status {
		case StatusDone:
			if !done[entry.Task.ID] {
				continue
			}
		case StatusPending:
			if done[entry.Task.ID] {
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

// SortForDisplay orders entries by priority rank, then time of day (timed
// tasks before untimed), keeping the resolver's order for ties. This is a
// presentation transform; the stored bucket order is what reordering edits.
func SortForDisplay(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Task, out[j].Task
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if (a.Time == "") != (b.Time == "") {
			return a.Time != ""
		}
		return a.Time < b.Time
	})
	return out
}

// Suggestions scans every stored task for texts containing input, first match
// per distinct text, at most limit results. Mirrors the quick-add history
// suggestions of the day view.
func Suggestions(all []model.Task, input string, limit int) []model.Task {
	input = strings.ToLower(strings.TrimSpace(input))
	if len(input) < 2 || limit <= 0 {
		return nil
	}
	seen := make(map[string]bool)
	out := make([]model.Task, 0, limit)
	for _, task := range all {
		if seen[task.Text] {
			continue
		}
		seen[task.Text] = true
		if strings.Contains(strings.ToLower(task.Text), input) {
			out = append(out, task)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
