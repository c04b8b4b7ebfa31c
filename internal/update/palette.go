package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/commands"
	"dayplan/internal/export"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m, nil
	}

	var teaCmd tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, addErr := m.addFromArgs(a)
			if addErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: addErr.Error()}
			}
			m.CurrentView = ViewDay
			return commands.Result{Message: fmt.Sprintf("added: %s", task.Text)}, nil
		},
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			day, gotoErr := m.resolveWhen(g.When)
			if gotoErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: gotoErr.Error()}
			}
			m.Focused = day
			m.CurrentView = ViewDay
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("viewing %s", day)}, nil
		},
		View: func(v commands.ViewArgs) (commands.Result, error) {
			m.CurrentView = viewByName(v.Name)
			return commands.Result{Message: fmt.Sprintf("view: %s", m.CurrentView)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			if f.Clear {
				m.Filter = planner.Filter{}
				m.Cursor = 0
				return commands.Result{Message: "filter cleared"}, nil
			}
			next := planner.Filter{
				Search:   f.Search,
				Priority: model.Priority(f.Priority),
				Status:   planner.Status(f.Status),
			}
			if next.Priority != "" && !next.Priority.IsValid() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority: %s", f.Priority)}
			}
			switch next.Status {
			case "", planner.StatusAll, planner.StatusDone, planner.StatusPending:
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown status: %s", f.Status)}
			}
			m.Filter = next
			m.Cursor = 0
			return commands.Result{Message: "filter applied"}, nil
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			snap := m.engine.Store().Snapshot()
			path := e.Path
			switch e.Format {
			case "json":
				if path == "" {
					path = m.jsonPath
				}
				if exportErr := storage.WriteSnapshotFile(path, snap); exportErr != nil {
					return commands.Result{}, exportErr
				}
			default:
				if path == "" {
					path = m.icsPath
				}
				if exportErr := export.WriteICS(path, snap); exportErr != nil {
					return commands.Result{}, exportErr
				}
			}
			return commands.Result{Message: fmt.Sprintf("exported %s to %s", e.Format, path)}, nil
		},
		Quote: func() (commands.Result, error) {
			if m.quoteService == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "quotes are not configured"}
			}
			teaCmd = fetchQuoteCmd(m.quoteService)
			return commands.Result{Message: "fetching quote"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m, teaCmd
}

func (m Model) resolveWhen(when string) (model.Day, error) {
	switch when {
	case "today":
		return m.Today, nil
	case "tomorrow":
		return m.Today.AddDays(1), nil
	case "yesterday":
		return m.Today.AddDays(-1), nil
	default:
		return model.ParseDay(when)
	}
}

func viewByName(name string) View {
	switch name {
	case "week":
		return ViewWeek
	case "month":
		return ViewMonth
	case "archive":
		return ViewArchive
	default:
		return ViewDay
	}
}

// icsPathFor derives the calendar export path from the JSON export path.
func icsPathFor(jsonPath string) string {
	if jsonPath == "" {
		return "dayplan.ics"
	}
	if strings.HasSuffix(jsonPath, ".json") {
		return strings.TrimSuffix(jsonPath, ".json") + ".ics"
	}
	return jsonPath + ".ics"
}
