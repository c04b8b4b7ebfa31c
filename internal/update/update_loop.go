package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/quotes"
	"dayplan/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.quoteService != nil {
		return fetchQuoteCmd(m.quoteService)
	}
	return nil
}

func fetchQuoteCmd(svc *quotes.Service) tea.Cmd {
	return func() tea.Msg {
		q, err := svc.Today(context.Background())
		if err != nil {
			return QuoteMsg{Err: err}
		}
		return QuoteMsg{Text: q.Text, Author: q.Author}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		keyStr := typed.String()
		if m.Capture.Active && keyStr != "ctrl+c" {
			return m.handleCaptureKey(typed), nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Day:
			m.CurrentView = ViewDay
			return m, nil
		case m.Keys.Week:
			m.CurrentView = ViewWeek
			return m, nil
		case m.Keys.Month:
			m.CurrentView = ViewMonth
			return m, nil
		case m.Keys.Archive:
			m.CurrentView = ViewArchive
			m.ArchiveCursor = 0
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewDay:
			return m.handleDayKey(typed), nil
		case ViewWeek:
			return m.handleWeekKey(typed), nil
		case ViewMonth:
			return m.handleMonthKey(typed), nil
		case ViewArchive:
			return m.handleArchiveKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case GotoDayMsg:
		if !typed.Day.IsZero() {
			m.Focused = typed.Day
			m.Cursor = 0
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case QuoteMsg:
		if typed.Err == nil {
			m.Quote = views.RenderQuote(typed.Text, typed.Author)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := m.renderCommandPalette()
	switch m.CurrentView {
	case ViewDay:
		leftPane = m.renderDayView()
		rightPane += m.renderHelpIfVisible()
	case ViewWeek:
		leftPane = views.RenderWeekPanel(m.weekPanelData())
		rightPane += m.renderHelpIfVisible()
	case ViewMonth:
		leftPane = views.RenderMonthPanel(m.monthPanelData())
		rightPane += m.renderHelpIfVisible()
	case ViewArchive:
		leftPane = m.renderArchiveView()
		rightPane += m.renderHelpIfVisible()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("dayplan | view: %s | %s", m.CurrentView, m.Focused),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Quote:      m.Quote,
		Footer:     fmt.Sprintf("keys: %s day | %s week | %s month | %s archive | / cmd | %s help | %s quit", m.Keys.Day, m.Keys.Week, m.Keys.Month, m.Keys.Archive, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderDayView() string {
	entries := m.visibleEntries()
	rows := m.rowsFromEntries(m.Focused, entries)
	selectedID := ""
	if entry, ok := m.currentEntry(); ok {
		selectedID = entry.Task.ID
	}

	filterSummary := ""
	if !m.Filter.IsZero() {
		filterSummary = fmt.Sprintf("search=%q priority=%s status=%s", m.Filter.Search, m.Filter.Priority, m.Filter.Status)
	}
	return views.RenderDayPanel(views.DayPanelData{
		Date:          m.Focused.String(),
		Weekday:       m.Focused.Weekday().String(),
		ListView:      m.dayList.View(),
		Rows:          rows,
		SelectedID:    selectedID,
		QuickAddView:  m.quickAddInput.View(),
		CaptureActive: m.Capture.Active,
		EditTargetID:  m.Capture.EditID,
		Suggestions:   m.captureSuggestions(),
		FilterSummary: filterSummary,
	})
}

func (m Model) renderArchiveView() string {
	archived := m.archiveEntries()
	rows := make([]views.ArchiveRowData, 0, len(archived))
	selectedID := ""
	if ae, ok := m.currentArchiveEntry(archived); ok {
		selectedID = ae.Task.ID
	}
	for _, ae := range archived {
		rows = append(rows, views.ArchiveRowData{
			Date: ae.Day.String(),
			Row: views.TaskRowData{
				ID:       ae.Task.ID,
				Text:     ae.Task.Text,
				Time:     ae.Task.Time,
				Priority: string(ae.Task.Priority),
			},
		})
	}
	return views.RenderArchivePanel(views.ArchivePanelData{
		TableView:  m.archiveTable.View(),
		Rows:       rows,
		SelectedID: selectedID,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func isKnownView(v View) bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth, ViewArchive:
		return true
	default:
		return false
	}
}
