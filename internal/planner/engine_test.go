package planner

import (
	"fmt"
	"testing"
	"time"

	"dayplan/internal/model"
)

var testClock = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	e := NewEngine(NewStore(), nil)
	e.now = func() time.Time { return testClock }
	n := 0
	e.newID = func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
	return e
}

func day(s string) model.Day {
	d, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func effectiveIDs(s *Store, d model.Day) []string {
	entries := s.EffectiveTasks(d)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Task.ID)
	}
	return out
}

func TestAddSimpleTaskVisibleOnlyOnItsDay(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")

	task, err := e.Add(d, model.Draft{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Priority != model.PriorityMedium || task.Cadence != model.CadenceNone {
		t.Fatalf("defaults not applied: %+v", task)
	}

	got := e.Store().EffectiveTasks(d)
	if len(got) != 1 || got[0].Task.Text != "Buy milk" || got[0].Spanning() {
		t.Fatalf("unexpected effective view: %+v", got)
	}
	if next := e.Store().EffectiveTasks(day("2025-01-02")); len(next) != 0 {
		t.Fatalf("task leaked to the next day: %+v", next)
	}
	if prev := e.Store().EffectiveTasks(day("2024-12-31")); len(prev) != 0 {
		t.Fatalf("task leaked to the previous day: %+v", prev)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Add(day("2025-01-01"), model.Draft{Text: "   "}); err == nil {
		t.Fatal("expected error for blank text")
	}
	if n := e.Store().TaskCount(day("2025-01-01")); n != 0 {
		t.Fatalf("blank add mutated the store: %d tasks", n)
	}
}

func TestSpanningTaskVisibleAcrossRange(t *testing.T) {
	e := newTestEngine()
	origin := day("2025-01-01")

	task, err := e.Add(origin, model.Draft{Text: "Report", Due: day("2025-01-03")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		entries := e.Store().EffectiveTasks(day(d))
		if len(entries) != 1 || entries[0].Task.ID != task.ID {
			t.Fatalf("task missing on %s: %+v", d, entries)
		}
		spanning := d != "2025-01-01"
		if entries[0].Spanning() != spanning {
			t.Fatalf("spanning flag wrong on %s", d)
		}
		if spanning && !entries[0].OriginalDay.Equal(origin) {
			t.Fatalf("original day wrong on %s: %s", d, entries[0].OriginalDay)
		}
	}
	if got := e.Store().EffectiveTasks(day("2025-01-04")); len(got) != 0 {
		t.Fatalf("task visible past its due day: %+v", got)
	}
	if got := e.Store().EffectiveTasks(day("2024-12-31")); len(got) != 0 {
		t.Fatalf("task visible before its origin: %+v", got)
	}
}

func TestDirectTasksPrecedeSpanningTasks(t *testing.T) {
	e := newTestEngine()
	spanTask, _ := e.Add(day("2025-01-01"), model.Draft{Text: "Span", Due: day("2025-01-05")})
	direct, _ := e.Add(day("2025-01-02"), model.Draft{Text: "Direct"})

	ids := effectiveIDs(e.Store(), day("2025-01-02"))
	if len(ids) != 2 || ids[0] != direct.ID || ids[1] != spanTask.ID {
		t.Fatalf("order wrong: %v", ids)
	}
}

func TestUpdateRoutesToOwningBucket(t *testing.T) {
	e := newTestEngine()
	origin := day("2025-01-01")
	task, _ := e.Add(origin, model.Draft{Text: "Draft report", Due: day("2025-01-03")})

	// Edit while viewing a spanned day; the owning bucket must change.
	if ok := e.Update(day("2025-01-02"), task.ID, "Final report"); !ok {
		t.Fatal("update reported not found")
	}
	bucket := e.Store().Get(origin)
	if len(bucket) != 1 || bucket[0].Text != "Final report" {
		t.Fatalf("owning bucket not updated: %+v", bucket)
	}
	if n := e.Store().TaskCount(day("2025-01-02")); n != 0 {
		t.Fatalf("update wrote into the viewed day's bucket: %d", n)
	}
}

func TestUpdateMissesAreSilentNoOps(t *testing.T) {
	e := newTestEngine()
	task, _ := e.Add(day("2025-01-01"), model.Draft{Text: "Solo"})

	// Not visible on another day, so not editable from there.
	if ok := e.Update(day("2025-01-05"), task.ID, "changed"); ok {
		t.Fatal("update should miss outside the effective view")
	}
	if got := e.Store().Get(day("2025-01-01"))[0].Text; got != "Solo" {
		t.Fatalf("miss mutated state: %q", got)
	}
	if ok := e.Update(day("2025-01-01"), "no-such-id", "changed"); ok {
		t.Fatal("unknown id should be a no-op")
	}
}

func TestUpdateEmptyTextDeletes(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")
	task, _ := e.Add(d, model.Draft{Text: "Ephemeral"})
	if ok := e.Update(d, task.ID, "   "); !ok {
		t.Fatal("empty-text update should delete")
	}
	if n := e.Store().TaskCount(d); n != 0 {
		t.Fatalf("task still present: %d", n)
	}
}

func TestToggleSynchronizesAcrossSpan(t *testing.T) {
	e := newTestEngine()
	origin := day("2025-01-01")
	task, _ := e.Add(origin, model.Draft{Text: "Report", Due: day("2025-01-03")})

	if ok := e.Toggle(day("2025-01-02"), task.ID, true); !ok {
		t.Fatal("toggle reported not found")
	}
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if !e.Store().Completion(day(d))[task.ID] {
			t.Fatalf("completion not set on %s", d)
		}
	}
	if flags := e.Store().Completion(day("2025-01-04")); len(flags) != 0 {
		t.Fatalf("completion leaked outside the span: %v", flags)
	}

	if ok := e.Toggle(origin, task.ID, false); !ok {
		t.Fatal("untoggle reported not found")
	}
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if e.Store().Completion(day(d))[task.ID] {
			t.Fatalf("completion still set on %s", d)
		}
	}
}

func TestToggleIsIdempotent(t *testing.T) {
	e := newTestEngine()
	task, _ := e.Add(day("2025-01-01"), model.Draft{Text: "Report", Due: day("2025-01-03")})

	e.Toggle(day("2025-01-01"), task.ID, true)
	want := e.Store().Snapshot()
	e.Toggle(day("2025-01-02"), task.ID, true)
	got := e.Store().Snapshot()

	if len(got.Completion) != len(want.Completion) {
		t.Fatalf("double toggle changed completion days: %d vs %d", len(got.Completion), len(want.Completion))
	}
	for dayKey, flags := range want.Completion {
		for id, done := range flags {
			if got.Completion[dayKey][id] != done {
				t.Fatalf("double toggle changed %s/%s", dayKey, id)
			}
		}
	}
}

func TestToggleWithoutDueDateIsPerDay(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")
	task, _ := e.Add(d, model.Draft{Text: "No due"})

	e.Toggle(d, task.ID, true)
	if !e.Store().Completion(d)[task.ID] {
		t.Fatal("completion not set on the viewed day")
	}
	if flags := e.Store().Completion(day("2025-01-02")); len(flags) != 0 {
		t.Fatalf("no-due toggle leaked to another day: %v", flags)
	}
}

func TestDeleteCascadesCompletionAcrossSpan(t *testing.T) {
	e := newTestEngine()
	origin := day("2025-01-01")
	task, _ := e.Add(origin, model.Draft{Text: "Report", Due: day("2025-01-03")})
	other, _ := e.Add(day("2025-01-02"), model.Draft{Text: "Keep me"})

	e.Toggle(origin, task.ID, true)
	e.Toggle(day("2025-01-02"), other.ID, true)

	if ok := e.Delete(day("2025-01-02"), task.ID); !ok {
		t.Fatal("delete reported not found")
	}
	if n := e.Store().TaskCount(origin); n != 0 {
		t.Fatalf("task still in owning bucket: %d", n)
	}
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if _, present := e.Store().Completion(day(d))[task.ID]; present {
			t.Fatalf("completion entry survived on %s", d)
		}
	}
	// Unrelated flags on days inside the span are untouched.
	if !e.Store().Completion(day("2025-01-02"))[other.ID] {
		t.Fatal("delete cascade removed an unrelated completion flag")
	}
}

func TestDeleteWithoutDueClearsOwnDayFlag(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")
	task, _ := e.Add(d, model.Draft{Text: "Short lived"})
	e.Toggle(d, task.ID, true)

	if ok := e.Delete(d, task.ID); !ok {
		t.Fatal("delete reported not found")
	}
	if _, present := e.Store().Completion(d)[task.ID]; present {
		t.Fatal("completion entry survived the delete")
	}
}

func TestReorderIsLocalToItsDay(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")
	a, _ := e.Add(d, model.Draft{Text: "a"})
	b, _ := e.Add(d, model.Draft{Text: "b"})
	c, _ := e.Add(d, model.Draft{Text: "c"})
	otherDay := day("2025-01-02")
	x, _ := e.Add(otherDay, model.Draft{Text: "x"})
	y, _ := e.Add(otherDay, model.Draft{Text: "y"})

	if ok := e.Reorder(d, []string{c.ID, a.ID, b.ID}); !ok {
		t.Fatal("reorder rejected")
	}
	got := e.Store().Get(d)
	if got[0].ID != c.ID || got[1].ID != a.ID || got[2].ID != b.ID {
		t.Fatalf("order not applied: %+v", got)
	}
	other := e.Store().Get(otherDay)
	if other[0].ID != x.ID || other[1].ID != y.ID {
		t.Fatalf("reorder touched another bucket: %+v", other)
	}
}

func TestReorderRejectsBadIDSets(t *testing.T) {
	e := newTestEngine()
	d := day("2025-01-01")
	a, _ := e.Add(d, model.Draft{Text: "a"})
	b, _ := e.Add(d, model.Draft{Text: "b"})

	if ok := e.Reorder(d, []string{a.ID}); ok {
		t.Fatal("short order list should be rejected")
	}
	if ok := e.Reorder(d, []string{a.ID, "stranger"}); ok {
		t.Fatal("unknown id should be rejected")
	}
	if ok := e.Reorder(d, []string{a.ID, a.ID}); ok {
		t.Fatal("duplicate id should be rejected")
	}
	got := e.Store().Get(d)
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("rejected reorder mutated the bucket: %+v", got)
	}
}

func TestCommitHandsSnapshotToSaver(t *testing.T) {
	var saved []Snapshot
	store := NewStore()
	e := NewEngine(store, SaverFunc(func(snap Snapshot) error {
		saved = append(saved, snap)
		return nil
	}))
	e.now = func() time.Time { return testClock }

	if _, err := e.Add(day("2025-01-01"), model.Draft{Text: "persist me"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected one save, got %d", len(saved))
	}
	if len(saved[0].TasksByDate["2025-01-01"]) != 1 {
		t.Fatalf("snapshot missing the task: %+v", saved[0])
	}
}

func TestSaverFailureDoesNotBlockMutation(t *testing.T) {
	e := NewEngine(NewStore(), SaverFunc(func(Snapshot) error {
		return fmt.Errorf("disk full")
	}))
	e.now = func() time.Time { return testClock }

	task, err := e.Add(day("2025-01-01"), model.Draft{Text: "still added"})
	if err != nil {
		t.Fatalf("add failed on saver error: %v", err)
	}
	if got := e.Store().Get(day("2025-01-01")); len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("in-memory state lost: %+v", got)
	}
}
