package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"dayplan/internal/config"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/quotes"
)

type View string

const (
	ViewDay     View = "Day"
	ViewWeek    View = "Week"
	ViewMonth   View = "Month"
	ViewArchive View = "Archive"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day     string
	Week    string
	Month   string
	Archive string
	Help    string
	Quit    string
}

// CaptureState tracks the quick-add input. A non-empty EditID means the input
// is rewriting an existing task instead of adding one.
type CaptureState struct {
	Active bool
	EditID string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView   View
	Today         model.Day
	Focused       model.Day
	Cursor        int
	ArchiveCursor int
	Filter        planner.Filter
	Capture       CaptureState
	Palette       CommandPaletteState
	HelpVisible   bool
	Status        StatusBar
	Keys          GlobalKeyMap
	Quote         string
	Quitting      bool
	LastError     error

	engine          *planner.Engine
	quoteService    *quotes.Service
	icsPath         string
	jsonPath        string
	weekStartMonday bool
	now             func() time.Time

	// Bubble components used for rich TUI controls
	dayList       list.Model
	archiveTable  table.Model
	quickAddInput textinput.Model
	commandInput  textinput.Model
	helpModel     help.Model
	helpViewport  viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type GotoDayMsg struct {
	Day model.Day
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type QuoteMsg struct {
	Text   string
	Author string
	Err    error
}

func NewModel(engine *planner.Engine) Model {
	m := Model{
		CurrentView: ViewDay,
		engine:      engine,
		now:         time.Now,
		Keys: GlobalKeyMap{
			Day:     "1",
			Week:    "2",
			Month:   "3",
			Archive: "4",
			Help:    "?",
			Quit:    "q",
		},
	}
	m.Today = model.DayOf(m.now())
	m.Focused = m.Today
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func NewModelWithConfig(engine *planner.Engine, quoteService *quotes.Service, cfg *config.Config) Model {
	m := NewModel(engine)
	m.quoteService = quoteService
	if cfg != nil {
		m.jsonPath = cfg.ExportPath
		m.icsPath = icsPathFor(cfg.ExportPath)
		m.weekStartMonday = cfg.WeekStart == "monday"
	}
	return m
}
