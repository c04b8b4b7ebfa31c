package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidCadence  = errors.New("model: invalid recurrence cadence")
	ErrInvalidTime     = errors.New("model: invalid time of day")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display sorting, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Cadence string

const (
	CadenceNone    Cadence = "none"
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

func (c Cadence) IsValid() bool {
	switch c {
	case CadenceNone, CadenceDaily, CadenceWeekly, CadenceMonthly:
		return true
	default:
		return false
	}
}

// StrideDays is the fixed step between occurrences. Monthly is a flat 30-day
// stride, not calendar-month arithmetic.
func (c Cadence) StrideDays() int {
	switch c {
	case CadenceDaily:
		return 1
	case CadenceWeekly:
		return 7
	case CadenceMonthly:
		return 30
	default:
		return 0
	}
}

const timeOfDayLayout = "15:04"

// Task is one planner entry. Its canonical storage location is the day bucket
// it was created under; a task with a later due day additionally appears,
// read-only, on every day of [original, due].
type Task struct {
	ID        string
	Text      string
	Time      string // optional "15:04"
	Due       Day    // zero when absent
	Priority  Priority
	Cadence   Cadence
	CreatedAt time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Cadence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCadence, t.Cadence)
	}
	if t.Time != "" {
		if _, err := time.Parse(timeOfDayLayout, t.Time); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, t.Time)
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// Draft is the structured creation input. Only Text is required; the other
// fields default to no time, no due day, medium priority and no recurrence.
type Draft struct {
	Text     string
	Time     string
	Due      Day
	Priority Priority
	Cadence  Cadence
}

// Normalize trims the text and fills defaulted fields.
func (d Draft) Normalize() Draft {
	d.Text = strings.TrimSpace(d.Text)
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Cadence == "" {
		d.Cadence = CadenceNone
	}
	return d
}
