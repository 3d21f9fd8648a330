package commands

import (
	"fmt"
	"strings"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

type Type string

const (
	TypePlant    Type = "plant"
	TypeMove     Type = "move"
	TypeResize   Type = "resize"
	TypeComplete Type = "complete"
	TypeWindow   Type = "window"
	TypeUndo     Type = "undo"
	TypeRedo     Type = "redo"
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

type PlantArgs struct {
	Title    string
	StartMin int // -1 when no "at HH:MM" clause was given
}

type MoveArgs struct {
	Target   string
	StartMin int
}

type ResizeArgs struct {
	Target   string
	StartMin int // -1 when only the end moves
	EndMin   int
}

type CompleteArgs struct {
	Target string
}

type WindowArgs struct {
	StartMin int
	EndMin   int
}

type Command struct {
	Type     Type
	Raw      string
	Plant    *PlantArgs
	Move     *MoveArgs
	Resize   *ResizeArgs
	Complete *CompleteArgs
	Window   *WindowArgs
}

// Parse turns palette input like "/plant water ferns at 09:30" into a
// Command. A leading slash is optional.
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
	case TypePlant:
		return parsePlant(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeResize:
		return parseResize(input, args)
	case TypeComplete:
		return parseComplete(input, args)
	case TypeWindow:
		return parseWindow(input, args)
	case TypeUndo:
		return Command{Type: TypeUndo, Raw: input}, nil
	case TypeRedo:
		return Command{Type: TypeRedo, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parsePlant(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plant requires a title"}
	}
	start := -1
	title := args
	if len(args) >= 2 && strings.EqualFold(args[len(args)-2], "at") {
		m, ok := timegeom.ParseTimeToMinutes(args[len(args)-1])
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad time: %s", args[len(args)-1])}
		}
		start = m
		title = args[:len(args)-2]
	}
	t := strings.TrimSpace(strings.Join(title, " "))
	if t == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plant requires a title"}
	}
	return Command{Type: TypePlant, Raw: raw, Plant: &PlantArgs{Title: t, StartMin: start}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires target and time"}
	}
	m, ok := timegeom.ParseTimeToMinutes(args[len(args)-1])
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad time: %s", args[len(args)-1])}
	}
	target := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: target, StartMin: m}}, nil
}

// parseResize accepts "resize <target> HH:MM-HH:MM" or "resize <target>
// HH:MM" (end only).
func parseResize(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "resize requires target and time"}
	}
	span := args[len(args)-1]
	target := strings.Join(args[:len(args)-1], " ")

	start, end := -1, -1
	if i := strings.IndexByte(span, '-'); i >= 0 {
		s, okS := timegeom.ParseTimeToMinutes(span[:i])
		e, okE := timegeom.ParseTimeToMinutes(span[i+1:])
		if !okS || !okE || e < s+timegeom.MinDuration {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad span: %s", span)}
		}
		start, end = s, e
	} else {
		e, ok := timegeom.ParseTimeToMinutes(span)
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad time: %s", span)}
		}
		end = e
	}
	return Command{Type: TypeResize, Raw: raw, Resize: &ResizeArgs{Target: target, StartMin: start, EndMin: end}}, nil
}

func parseComplete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "complete requires a target"}
	}
	return Command{Type: TypeComplete, Raw: raw, Complete: &CompleteArgs{Target: strings.Join(args, " ")}}, nil
}

func parseWindow(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "window requires start and end times"}
	}
	s, okS := timegeom.ParseTimeToMinutes(args[0])
	e, okE := timegeom.ParseTimeToMinutes(args[1])
	if !okS || !okE || e <= s {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "window needs HH:MM HH:MM with end after start"}
	}
	return Command{Type: TypeWindow, Raw: raw, Window: &WindowArgs{StartMin: s, EndMin: e}}, nil
}
