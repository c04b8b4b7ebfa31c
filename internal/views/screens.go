package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID          string
	Text        string
	Time        string
	Due         string
	Priority    string
	Recurring   string
	Done        bool
	SpannedFrom string
}

type DayPanelData struct {
	Date          string
	Weekday       string
	ListView      string
	Rows          []TaskRowData
	SelectedID    string
	QuickAddView  string
	CaptureActive bool
	EditTargetID  string
	Suggestions   []string
	FilterSummary string
}

type WeekColumnData struct {
	Date    string
	Weekday string
	Focused bool
	Rows    []TaskRowData
}

type WeekPanelData struct {
	Start   string
	End     string
	Columns []WeekColumnData
}

type MonthCellData struct {
	Day     int
	Total   int
	Done    int
	Focused bool
	Today   bool
}

type MonthPanelData struct {
	Title string
	Cells []MonthCellData
}

type ArchiveRowData struct {
	Date string
	Row  TaskRowData
}

type ArchivePanelData struct {
	TableView  string
	Rows       []ArchiveRowData
	SelectedID string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("day: %s (%s)\n", data.Date, data.Weekday))
	b.WriteString("actions: [a]add [e]edit [space]done [d]delete [J/K]move [h/l]day\n")
	if data.FilterSummary != "" {
		b.WriteString("filter: " + data.FilterSummary + "\n")
	}
	if data.CaptureActive {
		label := "add"
		if data.EditTargetID != "" {
			label = "edit"
		}
		b.WriteString(label + ": " + data.QuickAddView + "\n")
		for _, s := range data.Suggestions {
			b.WriteString("  ? " + s + "\n")
		}
	}
	b.WriteString(data.ListView + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks)")
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row, data.SelectedID) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("week: %s .. %s\n", data.Start, data.End))
	b.WriteString("actions: [h/l]day [H/L]week [enter]open day\n")
	for _, col := range data.Columns {
		marker := " "
		if col.Focused {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("\n%s %s %s:\n", marker, col.Weekday, col.Date))
		if len(col.Rows) == 0 {
			b.WriteString("  (none)\n")
			continue
		}
		for _, row := range col.Rows {
			b.WriteString("  " + renderTaskRow(row, "") + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderMonthPanel(data MonthPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("month: %s\n", data.Title))
	b.WriteString("actions: [h/l]day [H/L]month [enter]open day\n")
	b.WriteString(" Su    Mo    Tu    We    Th    Fr    Sa\n")
	for i, cell := range data.Cells {
		if i > 0 && i%7 == 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMonthCell(cell))
	}
	return strings.TrimSpace(b.String())
}

func renderMonthCell(cell MonthCellData) string {
	if cell.Day == 0 {
		return "      "
	}
	mark := " "
	if cell.Focused {
		mark = ">"
	} else if cell.Today {
		mark = "*"
	}
	if cell.Total == 0 {
		return fmt.Sprintf("%s%2d    ", mark, cell.Day)
	}
	return fmt.Sprintf("%s%2d %d/%d", mark, cell.Day, cell.Done, cell.Total)
}

func RenderArchivePanel(data ArchivePanelData) string {
	var b strings.Builder
	b.WriteString("archive: unfinished tasks from past days\n")
	b.WriteString("actions: [j/k]move [space]done [enter]open day\n")
	b.WriteString(data.TableView + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(nothing left behind)")
		return strings.TrimSpace(b.String())
	}
	for _, ar := range data.Rows {
		cursor := " "
		if data.SelectedID != "" && ar.Row.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", cursor, ar.Date, strings.TrimSpace(renderTaskRow(ar.Row, ""))))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderQuote(text, author string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if author == "" {
		return fmt.Sprintf("“%s”", text)
	}
	return fmt.Sprintf("“%s” — %s", text, author)
}

func renderTaskRow(row TaskRowData, selectedID string) string {
	cursor := " "
	if selectedID != "" && row.ID == selectedID {
		cursor = ">"
	}
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, box, priorityBadge(row.Priority), row.Text))
	if row.Time != "" {
		b.WriteString(" @" + row.Time)
	}
	if row.Due != "" {
		b.WriteString(" due:" + row.Due)
	}
	if row.Recurring != "" {
		b.WriteString(" ~" + row.Recurring)
	}
	if row.SpannedFrom != "" {
		b.WriteString(" (from " + row.SpannedFrom + ")")
	}
	return b.String()
}

func priorityBadge(priority string) string {
	switch priority {
	case "high":
		return "[RED]"
	case "low":
		return "[GREEN]"
	default:
		return "[YELLOW]"
	}
}
