package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeDelete  Type = "delete"
	TypeShow    Type = "show"
	TypeDismiss Type = "dismiss"
	TypeMute    Type = "mute"
	TypeUnmute  Type = "unmute"
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

// AddArgs carries the free-text title plus any inline prio:/due:/label:
// tokens. Due stays a raw string; the handler interprets it.
type AddArgs struct {
	Title    string
	Priority string
	Due      string
	Labels   []string
}

type DoneArgs struct {
	Target string
}

type DeleteArgs struct {
	Target string
}

type ShowArgs struct {
	Subject  string
	Priority string
	Status   string
	Query    string
}

type DismissArgs struct {
	InsightID string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *DoneArgs
	Delete  *DeleteArgs
	Show    *ShowArgs
	Dismiss *DismissArgs
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
	case TypeDone:
		return parseTarget(input, TypeDone, args)
	case TypeDelete:
		return parseTarget(input, TypeDelete, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeDismiss:
		return parseDismiss(input, args)
	case TypeMute:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mute takes no arguments"}
		}
		return Command{Type: TypeMute, Raw: input}, nil
	case TypeUnmute:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "unmute takes no arguments"}
		}
		return Command{Type: TypeUnmute, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}

	add := &AddArgs{}
	var titleWords []string
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "prio:"):
			add.Priority = strings.TrimSpace(strings.TrimPrefix(lower, "prio:"))
		case strings.HasPrefix(lower, "due:"):
			add.Due = strings.TrimSpace(arg[len("due:"):])
		case strings.HasPrefix(lower, "label:"):
			if label := strings.TrimSpace(arg[len("label:"):]); label != "" {
				add.Labels = append(add.Labels, label)
			}
		default:
			titleWords = append(titleWords, arg)
		}
	}

	add.Title = strings.TrimSpace(strings.Join(titleWords, " "))
	if add.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: add}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", typ)}
	}
	target := strings.TrimSpace(args[0])
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeDone:
		cmd.Done = &DoneArgs{Target: target}
	case TypeDelete:
		cmd.Delete = &DeleteArgs{Target: target}
	}
	return cmd, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}

	show := &ShowArgs{Subject: strings.ToLower(args[0])}
	switch show.Subject {
	case "tasks", "stats", "achievements", "insights":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", show.Subject)}
	}

	var queryWords []string
	for _, arg := range args[1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "prio:"):
			show.Priority = strings.TrimSpace(strings.TrimPrefix(lower, "prio:"))
		case strings.HasPrefix(lower, "status:"):
			show.Status = strings.TrimSpace(strings.TrimPrefix(lower, "status:"))
		default:
			queryWords = append(queryWords, arg)
		}
	}
	show.Query = strings.Join(queryWords, " ")
	return Command{Type: TypeShow, Raw: raw, Show: show}, nil
}

func parseDismiss(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "dismiss requires an insight id"}
	}
	return Command{Type: TypeDismiss, Raw: raw, Dismiss: &DismissArgs{InsightID: strings.TrimSpace(args[0])}}, nil
}
