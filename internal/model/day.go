package model

import (
	"errors"
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("model: invalid day")

// Day is a calendar day with no time-of-day component.
// The zero Day is "no day" and reports IsZero.
type Day struct {
	t time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an instant to its calendar day.
func DayOf(at time.Time) Day {
	y, m, d := at.Date()
	return NewDay(y, m, d)
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return DayOf(t), nil
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

func (d Day) Time() time.Time { return d.t }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Next() Day { return d.AddDays(1) }

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

func (d Day) After(other Day) bool { return d.t.After(other.t) }

func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// Compare returns -1, 0 or 1 ordering d against other.
func (d Day) Compare(other Day) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// In reports whether d falls within [from, to] inclusive.
func (d Day) In(from, to Day) bool {
	return !d.Before(from) && !d.After(to)
}

// DaysInclusive enumerates every day from a through b. An inverted range is
// empty.
func DaysInclusive(a, b Day) []Day {
	if a.After(b) {
		return nil
	}
	out := make([]Day, 0, 8)
	for cur := a; !cur.After(b); cur = cur.Next() {
		out = append(out, cur)
	}
	return out
}

// StartOfWeek returns the Sunday on or before d, matching the week layout of
// the planner's week view.
func (d Day) StartOfWeek() Day {
	return d.AddDays(-int(d.Weekday()))
}
