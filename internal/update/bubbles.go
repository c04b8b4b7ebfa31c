package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"dayplan/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.dayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.dayList.Title = "Day (list)"
	m.dayList.SetShowHelp(false)
	m.dayList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Pri", Width: 6},
		{Title: "Task", Width: 30},
	}
	m.archiveTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "task> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.helpViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	entries := m.visibleEntries()
	items := make([]list.Item, 0, len(entries))
	done := m.engine.Store().Completion(m.Focused)
	for _, entry := range entries {
		desc := string(entry.Task.Priority)
		if done[entry.Task.ID] {
			desc += " | done"
		}
		items = append(items, listItem{title: entry.Task.Text, description: desc})
	}
	m.dayList.SetItems(items)
	if len(items) > 0 && m.Cursor < len(items) {
		m.dayList.Select(m.Cursor)
	}

	archived := m.archiveEntries()
	rows := make([]table.Row, 0, len(archived))
	for _, ae := range archived {
		rows = append(rows, table.Row{ae.Day.String(), string(ae.Task.Priority), ae.Task.Text})
	}
	m.archiveTable.SetRows(rows)
	if len(rows) > 0 && m.ArchiveCursor < len(rows) {
		m.archiveTable.SetCursor(m.ArchiveCursor)
	}

	if m.Capture.Active {
		m.quickAddInput.Focus()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	m.helpViewport.SetContent(views.RenderMarkdown(m.helpMarkdown()))
}

func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# dayplan\n\n")
	b.WriteString(fmt.Sprintf("Viewing **%s**.\n\n", m.Focused))
	b.WriteString("Inline quick-add markers: `@14:00` time, `due:2025-01-20` due date, `!high` priority, `repeat:weekly` recurrence.\n")
	return b.String()
}
