package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeSection Type = "section"
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeDelete  Type = "delete"
	TypeShow    Type = "show"
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

type SectionArgs struct {
	Title string
	Color string
}

type AddArgs struct {
	Title string
	Due   string
	Start string
	Notes string
}

type DoneArgs struct {
	Target string
}

type DeleteArgs struct {
	Kind   string
	Target string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type    Type
	Raw     string
	Section *SectionArgs
	Add     *AddArgs
	Done    *DoneArgs
	Delete  *DeleteArgs
	Show    *ShowArgs
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
	case TypeSection:
		return parseSection(input, args)
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseSection(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "section requires a title"}
	}
	color := ""
	titleParts := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "#") {
			color = arg
			continue
		}
		titleParts = append(titleParts, arg)
	}
	title := strings.TrimSpace(strings.Join(titleParts, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "section requires a title"}
	}
	return Command{Type: TypeSection, Raw: raw, Section: &SectionArgs{Title: title, Color: color}}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := AddArgs{}
	titleParts := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "due:"):
			out.Due = strings.TrimSpace(arg[len("due:"):])
		case strings.HasPrefix(lower, "start:"):
			out.Start = strings.TrimSpace(arg[len("start:"):])
		default:
			titleParts = append(titleParts, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(titleParts, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	target := "selected"
	if len(args) > 0 {
		target = strings.ToLower(args[0])
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: target}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires item or section"}
	}
	kind := strings.ToLower(args[0])
	if kind != "item" && kind != "section" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete target must be item or section"}
	}
	target := "selected"
	if len(args) > 1 {
		target = strings.ToLower(args[1])
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Kind: kind, Target: target}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	if subject != "sections" && subject != "focus" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show subject must be sections or focus"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}
