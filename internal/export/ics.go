package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"dayplan/internal/model"
	"dayplan/internal/planner"
)

const prodID = "-//dayplan//planner//EN"

// timedDuration is the block a timed task occupies on external calendars.
const timedDuration = time.Hour

// WriteICS renders the planner state as an iCalendar file, one VEVENT per
// task. Recurring chains are collapsed: the materializer stores each
// occurrence as its own record, so without collapsing an external calendar
// would show every occurrence twice.
func WriteICS(path string, snap planner.Snapshot) error {
	payload, err := RenderICS(snap)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(payload), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// RenderICS serializes the snapshot to iCalendar text.
func RenderICS(snap planner.Snapshot) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	days := make([]string, 0, len(snap.TasksByDate))
	for dayKey := range snap.TasksByDate {
		days = append(days, dayKey)
	}
	sort.Strings(days)

	collapsed := collapseChains(snap, days)
	for _, dayKey := range days {
		owner, err := model.ParseDay(dayKey)
		if err != nil {
			return "", fmt.Errorf("bucket key %q: %w", dayKey, err)
		}
		for _, task := range snap.TasksByDate[dayKey] {
			chain, isChain := collapsed[chainKey(task)]
			if isChain {
				if chain.headID != task.ID {
					continue
				}
				addEvent(cal, task, owner, chain.rule)
				continue
			}
			addEvent(cal, task, owner, "")
		}
	}
	return cal.Serialize(), nil
}

type chain struct {
	headID string
	rule   string
}

func chainKey(task model.Task) string {
	if task.Cadence == model.CadenceNone {
		return ""
	}
	return string(task.Cadence) + "\x00" + task.Time + "\x00" + task.Text
}

// collapseChains groups recurring records sharing text, time and cadence into
// a single head event carrying an RRULE that covers the whole chain.
func collapseChains(snap planner.Snapshot, days []string) map[string]chain {
	type span struct {
		headID string
		first  model.Day
		last   model.Day
	}
	spans := make(map[string]*span)
	for _, dayKey := range days {
		owner, err := model.ParseDay(dayKey)
		if err != nil {
			continue
		}
		for _, task := range snap.TasksByDate[dayKey] {
			key := chainKey(task)
			if key == "" {
				continue
			}
			s, ok := spans[key]
			if !ok {
				spans[key] = &span{headID: task.ID, first: owner, last: owner}
				continue
			}
			if owner.After(s.last) {
				s.last = owner
			}
		}
	}

	out := make(map[string]chain, len(spans))
	for key, s := range spans {
		out[key] = chain{headID: s.headID, rule: ruleFor(keyCadence(key), s.first, s.last)}
	}
	return out
}

func keyCadence(key string) model.Cadence {
	for i := 0; i < len(key); i++ {
		if key[i] == '\x00' {
			return model.Cadence(key[:i])
		}
	}
	return model.CadenceNone
}

// ruleFor builds the RRULE for a chain. Strides are fixed day counts, so the
// monthly cadence exports as a 30-day interval rather than FREQ=MONTHLY.
func ruleFor(cadence model.Cadence, first, last model.Day) string {
	opt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first.Time(),
		Until:   last.Time(),
	}
	switch cadence {
	case model.CadenceDaily:
		opt.Interval = 1
	case model.CadenceWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
	case model.CadenceMonthly:
		opt.Interval = 30
	default:
		return ""
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return r.String()
}

func addEvent(cal *ical.Calendar, task model.Task, owner model.Day, rule string) {
	ev := cal.AddEvent(task.ID + "@dayplan")
	ev.SetDtStampTime(task.CreatedAt.UTC())
	ev.SetSummary(task.Text)
	ev.SetDescription("priority: " + string(task.Priority))

	if task.Time != "" {
		start := timedStart(task, owner)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(timedDuration))
	} else {
		ev.SetAllDayStartAt(owner.Time())
		end := owner
		if !task.Due.IsZero() && task.Due.After(owner) {
			end = task.Due
		}
		// DTEND is exclusive for all-day events.
		ev.SetAllDayEndAt(end.Next().Time())
	}
	if rule != "" {
		ev.AddRrule(rule)
	}
}

func timedStart(task model.Task, owner model.Day) time.Time {
	parsed, err := time.Parse("15:04", task.Time)
	if err != nil {
		return owner.Time()
	}
	base := owner.Time()
	return time.Date(base.Year(), base.Month(), base.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}
