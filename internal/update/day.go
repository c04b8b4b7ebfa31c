package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/commands"
	"dayplan/internal/model"
	"dayplan/internal/planner"
)

// visibleEntries is the focused day as rendered: effective view, filtered,
// then display-sorted.
func (m Model) visibleEntries() []planner.Entry {
	store := m.engine.Store()
	entries := store.EffectiveTasks(m.Focused)
	if !m.Filter.IsZero() {
		entries = m.Filter.Apply(entries, store.Completion(m.Focused))
	}
	return planner.SortForDisplay(entries)
}

func (m Model) currentEntry() (planner.Entry, bool) {
	entries := m.visibleEntries()
	if len(entries) == 0 || m.Cursor < 0 || m.Cursor >= len(entries) {
		return planner.Entry{}, false
	}
	return entries[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleEntries())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) handleDayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.visibleEntries())-1 {
			m.Cursor++
		}
	case "h":
		m.Focused = m.Focused.AddDays(-1)
		m.Cursor = 0
	case "l":
		m.Focused = m.Focused.AddDays(1)
		m.Cursor = 0
	case "t":
		m.Focused = m.Today
		m.Cursor = 0
	case "a":
		m.Capture = CaptureState{Active: true}
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
	case "e":
		if entry, ok := m.currentEntry(); ok {
			m.Capture = CaptureState{Active: true, EditID: entry.Task.ID}
			m.quickAddInput.SetValue(entry.Task.Text)
			m.quickAddInput.Focus()
		}
	case " ", "x":
		if entry, ok := m.currentEntry(); ok {
			done := m.engine.Store().Completion(m.Focused)[entry.Task.ID]
			m.engine.Toggle(m.Focused, entry.Task.ID, !done)
		}
	case "d":
		if entry, ok := m.currentEntry(); ok {
			if m.engine.Delete(m.Focused, entry.Task.ID) {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", entry.Task.Text)}
			}
			m.clampCursor()
		}
	case "K":
		m.moveSelected(-1)
	case "J":
		m.moveSelected(1)
	}
	return m
}

// moveSelected swaps the selected task with its neighbor in the focused day's
// own bucket. Tasks projected from earlier days are not part of the bucket
// and stay where they are.
func (m *Model) moveSelected(delta int) {
	entry, ok := m.currentEntry()
	if !ok || entry.Spanning() {
		return
	}
	bucket := m.engine.Store().Get(m.Focused)
	idx := -1
	for i, task := range bucket {
		if task.ID == entry.Task.ID {
			idx = i
			break
		}
	}
	target := idx + delta
	if idx < 0 || target < 0 || target >= len(bucket) {
		return
	}
	ids := make([]string, len(bucket))
	for i, task := range bucket {
		ids[i] = task.ID
	}
	ids[idx], ids[target] = ids[target], ids[idx]
	if m.engine.Reorder(m.Focused, ids) {
		m.Status = StatusBar{Text: "reordered"}
	}
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Capture = CaptureState{}
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
	case "enter":
		m = m.commitCapture()
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m Model) commitCapture() Model {
	raw := strings.TrimSpace(m.quickAddInput.Value())
	editID := m.Capture.EditID
	m.Capture = CaptureState{}
	m.quickAddInput.SetValue("")
	m.quickAddInput.Blur()

	if editID != "" {
		if raw == "" {
			m.engine.Delete(m.Focused, editID)
			m.Status = StatusBar{Text: "task removed"}
			m.clampCursor()
			return m
		}
		if m.engine.Update(m.Focused, editID, raw) {
			m.Status = StatusBar{Text: "task updated"}
		}
		return m
	}
	if raw == "" {
		return m
	}

	cmd, err := commands.Parse("add " + raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	task, err := m.addFromArgs(*cmd.Add)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Text)}
	return m
}

func (m Model) addFromArgs(args commands.AddArgs) (model.Task, error) {
	draft := model.Draft{
		Text:     args.Text,
		Time:     args.Time,
		Priority: model.Priority(args.Priority),
		Cadence:  model.Cadence(args.Cadence),
	}
	if args.Due != "" {
		due, err := model.ParseDay(args.Due)
		if err != nil {
			return model.Task{}, err
		}
		draft.Due = due
	}
	return m.engine.Add(m.Focused, draft)
}

// captureSuggestions surfaces texts of past tasks matching the current input.
func (m Model) captureSuggestions() []string {
	if !m.Capture.Active || m.Capture.EditID != "" {
		return nil
	}
	matches := planner.Suggestions(m.engine.Store().AllTasks(), m.quickAddInput.Value(), 5)
	out := make([]string, 0, len(matches))
	for _, task := range matches {
		out = append(out, task.Text)
	}
	return out
}
