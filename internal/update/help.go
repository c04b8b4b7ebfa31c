package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"dayplan/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	}) + "\n" + m.helpViewport.View()
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Day, Action: "switch to Day"},
		{Key: m.Keys.Week, Action: "switch to Week"},
		{Key: m.Keys.Month, Action: "switch to Month"},
		{Key: m.Keys.Archive, Action: "switch to Archive"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDay:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a/e", Action: "add / edit task"},
			{Key: "space", Action: "toggle done"},
			{Key: "d", Action: "delete task"},
			{Key: "J/K", Action: "move task down / up"},
			{Key: "h/l", Action: "previous / next day"},
			{Key: "t", Action: "jump to today"},
		}
	case ViewWeek:
		return []KeyBinding{
			{Key: "h/l", Action: "previous / next day"},
			{Key: "H/L", Action: "previous / next week"},
			{Key: "enter", Action: "open focused day"},
		}
	case ViewMonth:
		return []KeyBinding{
			{Key: "h/l", Action: "previous / next day"},
			{Key: "H/L", Action: "previous / next month"},
			{Key: "enter", Action: "open focused day"},
		}
	case ViewArchive:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "mark done"},
			{Key: "d", Action: "delete task"},
			{Key: "enter", Action: "open task's day"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
