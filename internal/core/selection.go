// ABOUTME: Parses the all / index / cancel choice used by every extraction flow
// ABOUTME: Also parses result actions such as "view 2" or "copyall"
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSelection is returned for input that is not all, cancel, or an in-range index.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is a parsed candidate choice.
type Selection struct {
	All    bool
	Cancel bool
	// Index is 1-based and only set when neither All nor Cancel is.
	Index int
}

// ParseSelection interprets input against n candidates.
func ParseSelection(input string, n int) (Selection, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "all":
		return Selection{All: true}, nil
	case "cancel":
		return Selection{Cancel: true}, nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: enter a number, 'all', or 'cancel'", ErrInvalidSelection)
	}
	if i < 1 || i > n {
		return Selection{}, fmt.Errorf("%w: enter a number between 1 and %d", ErrInvalidSelection, n)
	}
	return Selection{Index: i}, nil
}

// Apply returns the candidates chosen by s.
func (s Selection) Apply(cands []Candidate) []Candidate {
	switch {
	case s.Cancel:
		return nil
	case s.All:
		return cands
	case s.Index >= 1 && s.Index <= len(cands):
		return cands[s.Index-1 : s.Index]
	default:
		return nil
	}
}

// Result action verbs.
const (
	ActionView    = "view"
	ActionCopy    = "copy"
	ActionCopyAll = "copyall"
	ActionExtract = "extract"
	ActionDelete  = "delete"
	ActionDone    = "done"
)

// Action is a parsed result-interaction command.
type Action struct {
	Verb  string
	Index int
}

// ParseAction reads commands like "view 2", "copy 1", "copyall", "extract 3",
// "delete 1", or "done". Indices are 1-based and checked against n.
func ParseAction(input string, n int) (Action, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("%w: empty command", ErrInvalidSelection)
	}

	verb := fields[0]
	switch verb {
	case ActionCopyAll, ActionDone, "exit", "quit", "q":
		if verb != ActionCopyAll {
			verb = ActionDone
		}
		return Action{Verb: verb}, nil
	case ActionView, ActionCopy, ActionExtract, ActionDelete:
	default:
		return Action{}, fmt.Errorf("%w: unknown action %q", ErrInvalidSelection, fields[0])
	}

	if len(fields) < 2 {
		return Action{}, fmt.Errorf("%w: %s needs a result number", ErrInvalidSelection, verb)
	}
	i, err := strconv.Atoi(fields[1])
	if err != nil || i < 1 || i > n {
		return Action{}, fmt.Errorf("%w: enter a result number between 1 and %d", ErrInvalidSelection, n)
	}
	return Action{Verb: verb, Index: i}, nil
}
