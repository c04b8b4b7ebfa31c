package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/views"
)

func (m Model) handleWeekKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h":
		m.Focused = m.Focused.AddDays(-1)
	case "l":
		m.Focused = m.Focused.AddDays(1)
	case "H":
		m.Focused = m.Focused.AddDays(-7)
	case "L":
		m.Focused = m.Focused.AddDays(7)
	case "t":
		m.Focused = m.Today
	case "enter":
		m.CurrentView = ViewDay
		m.Cursor = 0
	}
	return m
}

func (m Model) handleMonthKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h":
		m.Focused = m.Focused.AddDays(-1)
	case "l":
		m.Focused = m.Focused.AddDays(1)
	case "H":
		m.Focused = model.DayOf(m.Focused.Time().AddDate(0, -1, 0))
	case "L":
		m.Focused = model.DayOf(m.Focused.Time().AddDate(0, 1, 0))
	case "t":
		m.Focused = m.Today
	case "enter":
		m.CurrentView = ViewDay
		m.Cursor = 0
	}
	return m
}

func (m Model) handleArchiveKey(msg tea.KeyMsg) Model {
	archived := m.archiveEntries()
	switch msg.String() {
	case "up", "k":
		if m.ArchiveCursor > 0 {
			m.ArchiveCursor--
		}
	case "down", "j":
		if m.ArchiveCursor < len(archived)-1 {
			m.ArchiveCursor++
		}
	case " ", "x":
		if ae, ok := m.currentArchiveEntry(archived); ok {
			m.engine.Toggle(ae.Day, ae.Task.ID, true)
			if m.ArchiveCursor >= len(m.archiveEntries()) {
				m.ArchiveCursor = len(m.archiveEntries()) - 1
			}
			if m.ArchiveCursor < 0 {
				m.ArchiveCursor = 0
			}
		}
	case "d":
		if ae, ok := m.currentArchiveEntry(archived); ok {
			m.engine.Delete(ae.Day, ae.Task.ID)
		}
	case "enter":
		if ae, ok := m.currentArchiveEntry(archived); ok {
			m.Focused = ae.Day
			m.CurrentView = ViewDay
			m.Cursor = 0
		}
	}
	return m
}

type archiveEntry struct {
	Day  model.Day
	Task model.Task
}

// archiveEntries collects tasks from past days that were never finished.
// Multi-day tasks still running toward a future due date are not archived.
func (m Model) archiveEntries() []archiveEntry {
	store := m.engine.Store()
	out := make([]archiveEntry, 0)
	for _, day := range store.Days() {
		if !day.Before(m.Today) {
			continue
		}
		done := store.Completion(day)
		for _, task := range store.Get(day) {
			if done[task.ID] {
				continue
			}
			if !task.Due.IsZero() && !task.Due.Before(m.Today) {
				continue
			}
			out = append(out, archiveEntry{Day: day, Task: task})
		}
	}
	return out
}

func (m Model) currentArchiveEntry(archived []archiveEntry) (archiveEntry, bool) {
	if len(archived) == 0 || m.ArchiveCursor < 0 || m.ArchiveCursor >= len(archived) {
		return archiveEntry{}, false
	}
	return archived[m.ArchiveCursor], true
}

func (m Model) weekStart() model.Day {
	start := m.Focused.StartOfWeek()
	if m.weekStartMonday {
		if m.Focused.Weekday() == time.Sunday {
			return m.Focused.AddDays(-6)
		}
		return start.AddDays(1)
	}
	return start
}

func (m Model) weekPanelData() views.WeekPanelData {
	start := m.weekStart()
	data := views.WeekPanelData{
		Start: start.String(),
		End:   start.AddDays(6).String(),
	}
	for i := 0; i < 7; i++ {
		day := start.AddDays(i)
		data.Columns = append(data.Columns, views.WeekColumnData{
			Date:    day.String(),
			Weekday: day.Weekday().String()[:3],
			Focused: day.Equal(m.Focused),
			Rows:    m.taskRows(day),
		})
	}
	return data
}

func (m Model) monthPanelData() views.MonthPanelData {
	focused := m.Focused.Time()
	first := model.NewDay(focused.Year(), focused.Month(), 1)
	data := views.MonthPanelData{Title: focused.Format("January 2006")}

	for i := 0; i < int(first.Weekday()); i++ {
		data.Cells = append(data.Cells, views.MonthCellData{})
	}
	store := m.engine.Store()
	for day := first; day.Time().Month() == focused.Month(); day = day.Next() {
		data.Cells = append(data.Cells, views.MonthCellData{
			Day:     day.Time().Day(),
			Total:   store.TaskCount(day),
			Done:    store.CompletedCount(day),
			Focused: day.Equal(m.Focused),
			Today:   day.Equal(m.Today),
		})
	}
	return data
}

func (m Model) taskRows(day model.Day) []views.TaskRowData {
	return m.rowsFromEntries(day, m.engine.Store().EffectiveTasks(day))
}

func (m Model) rowsFromEntries(day model.Day, entries []planner.Entry) []views.TaskRowData {
	done := m.engine.Store().Completion(day)
	rows := make([]views.TaskRowData, 0, len(entries))
	for _, entry := range entries {
		row := views.TaskRowData{
			ID:       entry.Task.ID,
			Text:     entry.Task.Text,
			Time:     entry.Task.Time,
			Priority: string(entry.Task.Priority),
			Done:     done[entry.Task.ID],
		}
		if !entry.Task.Due.IsZero() {
			row.Due = entry.Task.Due.String()
		}
		if entry.Task.Cadence != model.CadenceNone {
			row.Recurring = string(entry.Task.Cadence)
		}
		if entry.Spanning() {
			row.SpannedFrom = entry.OriginalDay.String()
		}
		rows = append(rows, row)
	}
	return rows
}
