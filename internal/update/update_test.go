package update

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/model"
	"dayplan/internal/planner"
)

func day(t *testing.T, s string) model.Day {
	t.Helper()
	d, err := model.ParseDay(s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := planner.NewStore()
	engine := planner.NewEngine(store, planner.SaverFunc(func(planner.Snapshot) error { return nil }))
	m := NewModel(engine)
	m.now = func() time.Time { return time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC) }
	m.Today = day(t, "2025-01-10")
	m.Focused = m.Today
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewDay {
		t.Fatalf("expected default view %q, got %q", ViewDay, m.CurrentView)
	}
	if !m.Focused.Equal(m.Today) {
		t.Fatalf("expected focus on today, got %s", m.Focused)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2")
	if m.CurrentView != ViewWeek {
		t.Fatalf("expected week view, got %q", m.CurrentView)
	}
	m = press(t, m, "4")
	if m.CurrentView != ViewArchive {
		t.Fatalf("expected archive view, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewMonth})
	next := updated.(Model)
	if next.CurrentView != ViewMonth {
		t.Fatalf("expected month view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewMonth {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestQuickAddCreatesTask(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a")
	if !m.Capture.Active {
		t.Fatal("expected capture mode after a")
	}
	m = typeText(t, m, "ship report @14:00 !high due:2025-01-12")
	m = press(t, m, "enter")

	if m.Capture.Active {
		t.Fatal("capture should close on enter")
	}
	bucket := m.engine.Store().Get(m.Focused)
	if len(bucket) != 1 {
		t.Fatalf("bucket size = %d", len(bucket))
	}
	task := bucket[0]
	if task.Text != "ship report" || task.Time != "14:00" || task.Priority != model.PriorityHigh {
		t.Fatalf("markers not applied: %+v", task)
	}
	if task.Due.String() != "2025-01-12" {
		t.Fatalf("due not applied: %+v", task)
	}
}

func TestBubbleComponentsTrackMutations(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a")
	m = typeText(t, m, "sync me")
	m = press(t, m, "enter")

	if got := len(m.visibleEntries()); got != 1 {
		t.Fatalf("visible entries = %d", got)
	}
	if got := len(m.dayList.Items()); got != 1 {
		t.Fatalf("day list items = %d, want 1", got)
	}

	m = press(t, m, "d")
	if got := len(m.dayList.Items()); got != 0 {
		t.Fatalf("day list items after delete = %d, want 0", got)
	}
}

func TestArchiveTableTracksPastTasks(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.engine.Add(day(t, "2025-01-05"), model.Draft{Text: "left behind"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	m = press(t, m, "4")
	if got := len(m.archiveTable.Rows()); got != 1 {
		t.Fatalf("archive table rows = %d, want 1", got)
	}
}

func TestQuickAddCursorEditsMidText(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a")
	m = typeText(t, m, "abc")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	m = typeText(t, m, "X")
	if got := m.quickAddInput.Value(); got != "abXc" {
		t.Fatalf("quick-add value = %q, want %q", got, "abXc")
	}
}

func TestPaletteCursorEditsMidText(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")
	m = typeText(t, m, "goto")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	m = typeText(t, m, "X")
	if got := m.commandInput.Value(); got != "gotXo" {
		t.Fatalf("palette value = %q, want %q", got, "gotXo")
	}
	if m.Palette.Input != "gotXo" {
		t.Fatalf("palette input not synced: %q", m.Palette.Input)
	}
}

func TestQuickAddEscCancels(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a")
	m = typeText(t, m, "half typed")
	m = press(t, m, "esc")
	if m.Capture.Active {
		t.Fatal("capture should close on esc")
	}
	if got := m.engine.Store().TaskCount(m.Focused); got != 0 {
		t.Fatalf("no task should be stored, got %d", got)
	}
}

func TestToggleAndDeleteKeys(t *testing.T) {
	m := newTestModel(t)
	task, err := m.engine.Add(m.Focused, model.Draft{Text: "water plants"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	m = press(t, m, "space")
	if !m.engine.Store().Completion(m.Focused)[task.ID] {
		t.Fatal("space should mark done")
	}
	m = press(t, m, "space")
	if m.engine.Store().Completion(m.Focused)[task.ID] {
		t.Fatal("space should toggle back")
	}

	m = press(t, m, "d")
	if got := m.engine.Store().TaskCount(m.Focused); got != 0 {
		t.Fatalf("delete should empty the day, got %d tasks", got)
	}
}

func TestEditKeyRewritesTask(t *testing.T) {
	m := newTestModel(t)
	task, err := m.engine.Add(m.Focused, model.Draft{Text: "old text"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	m = press(t, m, "e")
	if m.Capture.EditID != task.ID {
		t.Fatalf("edit target = %q, want %q", m.Capture.EditID, task.ID)
	}
	m = typeText(t, m, " plus more")
	m = press(t, m, "enter")

	got := m.engine.Store().Get(m.Focused)[0]
	if got.Text != "old text plus more" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.ID != task.ID {
		t.Fatal("edit must keep the task id")
	}
}

func TestReorderKeysSwapNeighbors(t *testing.T) {
	m := newTestModel(t)
	first, _ := m.engine.Add(m.Focused, model.Draft{Text: "first"})
	second, _ := m.engine.Add(m.Focused, model.Draft{Text: "second"})

	m = press(t, m, "J")
	bucket := m.engine.Store().Get(m.Focused)
	if bucket[0].ID != second.ID || bucket[1].ID != first.ID {
		t.Fatalf("J should move selection down: %s, %s", bucket[0].Text, bucket[1].Text)
	}
}

func TestDayNavigationKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "l", "l")
	if m.Focused.String() != "2025-01-12" {
		t.Fatalf("l should advance, got %s", m.Focused)
	}
	m = press(t, m, "h")
	if m.Focused.String() != "2025-01-11" {
		t.Fatalf("h should go back, got %s", m.Focused)
	}
	m = press(t, m, "t")
	if !m.Focused.Equal(m.Today) {
		t.Fatalf("t should jump to today, got %s", m.Focused)
	}
}

func TestSpannedTaskAppearsWhileViewingLaterDay(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.engine.Add(m.Focused, model.Draft{Text: "conference", Due: day(t, "2025-01-12")}); err != nil {
		t.Fatalf("add: %v", err)
	}
	m = press(t, m, "l")

	entries := m.visibleEntries()
	if len(entries) != 1 || !entries[0].Spanning() {
		t.Fatalf("expected one spanning entry, got %+v", entries)
	}
	if out := m.View(); !strings.Contains(out, "from 2025-01-10") {
		t.Fatal("spanned origin missing from render")
	}
}

func TestPaletteGotoAndFilter(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("palette should open on /")
	}
	m = typeText(t, m, "goto 2025-03-05")
	m = press(t, m, "enter")
	if m.Palette.Active {
		t.Fatal("palette should close after execute")
	}
	if m.Focused.String() != "2025-03-05" {
		t.Fatalf("goto did not move focus: %s", m.Focused)
	}

	m = press(t, m, "/")
	m = typeText(t, m, "filter p:high is:pending report")
	m = press(t, m, "enter")
	if m.Filter.Priority != model.PriorityHigh || m.Filter.Status != planner.StatusPending || m.Filter.Search != "report" {
		t.Fatalf("filter not applied: %+v", m.Filter)
	}

	m = press(t, m, "/")
	m = typeText(t, m, "filter")
	m = press(t, m, "enter")
	if !m.Filter.IsZero() {
		t.Fatalf("bare filter should clear: %+v", m.Filter)
	}
}

func TestPaletteExportWritesFiles(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.engine.Add(m.Focused, model.Draft{Text: "export me"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dir := t.TempDir()

	m = press(t, m, "/")
	m = typeText(t, m, "export json "+filepath.Join(dir, "out.json"))
	m = press(t, m, "enter")
	if m.Status.IsError {
		t.Fatalf("export failed: %s", m.Status.Text)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.json")); err != nil {
		t.Fatalf("json export missing: %v", err)
	}

	m = press(t, m, "/")
	m = typeText(t, m, "export ics "+filepath.Join(dir, "out.ics"))
	m = press(t, m, "enter")
	if _, err := os.Stat(filepath.Join(dir, "out.ics")); err != nil {
		t.Fatalf("ics export missing: %v", err)
	}
}

func TestArchiveListsAndResolvesPastTasks(t *testing.T) {
	m := newTestModel(t)
	past := day(t, "2025-01-05")
	task, err := m.engine.Add(past, model.Draft{Text: "left behind"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.engine.Add(m.Focused, model.Draft{Text: "current"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	archived := m.archiveEntries()
	if len(archived) != 1 || archived[0].Task.ID != task.ID {
		t.Fatalf("archive = %+v", archived)
	}

	m = press(t, m, "4", "space")
	if !m.engine.Store().Completion(past)[task.ID] {
		t.Fatal("archive space should mark done on the owning day")
	}
	if len(m.archiveEntries()) != 0 {
		t.Fatal("done task should leave the archive")
	}
}

func TestWeekPanelCoversSevenDays(t *testing.T) {
	m := newTestModel(t)
	data := m.weekPanelData()
	if len(data.Columns) != 7 {
		t.Fatalf("columns = %d", len(data.Columns))
	}
	// 2025-01-10 is a Friday; a Sunday-start week begins on the 5th.
	if data.Start != "2025-01-05" || data.End != "2025-01-11" {
		t.Fatalf("week range = %s .. %s", data.Start, data.End)
	}

	m.weekStartMonday = true
	data = m.weekPanelData()
	if data.Start != "2025-01-06" || data.End != "2025-01-12" {
		t.Fatalf("monday-start week range = %s .. %s", data.Start, data.End)
	}
}

func TestMonthPanelCellCounts(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.engine.Add(m.Focused, model.Draft{Text: "count me"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	data := m.monthPanelData()
	if data.Title != "January 2025" {
		t.Fatalf("title = %q", data.Title)
	}
	// January 2025 starts on a Wednesday: three leading blanks.
	blanks := 0
	for _, cell := range data.Cells {
		if cell.Day == 0 {
			blanks++
		} else {
			break
		}
	}
	if blanks != 3 {
		t.Fatalf("leading blanks = %d", blanks)
	}
	found := false
	for _, cell := range data.Cells {
		if cell.Day == 10 {
			found = true
			if cell.Total != 1 || !cell.Today {
				t.Fatalf("cell for the 10th = %+v", cell)
			}
		}
	}
	if !found {
		t.Fatal("cell for the 10th missing")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	errMsg := errors.New("boom")
	updated, _ = next.Update(AppErrorMsg{Err: errMsg})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuoteMsgFillsFooter(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(QuoteMsg{Text: "Make it so.", Author: "Picard"})
	next := updated.(Model)
	if !strings.Contains(next.Quote, "Make it so.") || !strings.Contains(next.Quote, "Picard") {
		t.Fatalf("quote = %q", next.Quote)
	}

	updated, _ = next.Update(QuoteMsg{Err: errors.New("offline")})
	next = updated.(Model)
	if !strings.Contains(next.Quote, "Make it so.") {
		t.Fatal("failed fetch must keep the previous quote")
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	if !strings.Contains(out, "view: Day") {
		t.Fatalf("expected view text in output: %q", out)
	}
	if !strings.Contains(out, "2025-01-10") {
		t.Fatal("focused day missing from header")
	}
	if !strings.Contains(out, "all good") {
		t.Fatal("status missing from output")
	}
}
