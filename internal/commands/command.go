package commands

import (
	"fmt"
	"strings"

	"dayplan/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeGoto   Type = "goto"
	TypeView   Type = "view"
	TypeFilter Type = "filter"
	TypeExport Type = "export"
	TypeQuote  Type = "quote"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a parsed quick-add line. Inline markers (@14:00,
// due:2025-01-20, !high, repeat:weekly) are stripped from the text.
type AddArgs struct {
	Text     string
	Time     string
	Due      string
	Priority string
	Cadence  string
}

type GotoArgs struct {
	// When is "today", "tomorrow", "yesterday" or an ISO date.
	When string
}

type ViewArgs struct {
	Name string
}

type FilterArgs struct {
	Search   string
	Priority string
	Status   string
	Clear    bool
}

type ExportArgs struct {
	Format string
	Path   string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Goto   *GotoArgs
	View   *ViewArgs
	Filter *FilterArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeView:
		return parseView(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeExport:
		return parseExport(input, args)
	case TypeQuote:
		return Command{Type: TypeQuote, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	out := &AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			out.Time = arg[1:]
		case strings.HasPrefix(lower, "due:"):
			due := strings.TrimSpace(arg[len("due:"):])
			if _, err := model.ParseDay(due); err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid due date: %s", due)}
			}
			out.Due = due
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			out.Priority = strings.ToLower(arg[1:])
		case strings.HasPrefix(lower, "repeat:"):
			out.Cadence = strings.ToLower(strings.TrimSpace(arg[len("repeat:"):]))
		default:
			words = append(words, arg)
		}
	}
	out.Text = strings.TrimSpace(strings.Join(words, " "))
	if out.Text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: out}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a date"}
	}
	when := strings.ToLower(args[0])
	switch when {
	case "today", "tomorrow", "yesterday":
	default:
		if _, err := model.ParseDay(when); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date: %s", args[0])}
		}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{When: when}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires a name"}
	}
	name := strings.ToLower(args[0])
	switch name {
	case "day", "week", "month", "archive":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view: %s", args[0])}
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Name: name}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	out := &FilterArgs{}
	if len(args) == 0 {
		out.Clear = true
		return Command{Type: TypeFilter, Raw: raw, Filter: out}, nil
	}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "p:"):
			out.Priority = strings.TrimSpace(lower[len("p:"):])
		case strings.HasPrefix(lower, "is:"):
			out.Status = strings.TrimSpace(lower[len("is:"):])
		default:
			words = append(words, arg)
		}
	}
	out.Search = strings.TrimSpace(strings.Join(words, " "))
	return Command{Type: TypeFilter, Raw: raw, Filter: out}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	out := &ExportArgs{Format: "ics"}
	if len(args) > 0 {
		format := strings.ToLower(args[0])
		switch format {
		case "ics", "json":
			out.Format = format
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown export format: %s", args[0])}
		}
	}
	if len(args) > 1 {
		out.Path = args[1]
	}
	return Command{Type: TypeExport, Raw: raw, Export: out}, nil
}
