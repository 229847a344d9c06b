// ABOUTME: Typed storage errors so callers can tell failures from empty results
// ABOUTME: Classifies errors as unavailable, not found, or invalid input
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row addressed by key does not exist.
var ErrNotFound = errors.New("not found")

// Kind classifies a storage failure.
type Kind int

const (
	// KindUnavailable covers a missing, locked, or corrupt database.
	KindUnavailable Kind = iota + 1
	// KindNotFound means the addressed row does not exist.
	KindNotFound
	// KindInvalid means the caller passed unusable input.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is returned by every store operation that fails.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr tags err with the operation name. Already-wrapped errors pass through.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	kind := KindUnavailable
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
		kind = KindNotFound
		err = ErrNotFound
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func invalidErr(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvalid, Err: fmt.Errorf(format, args...)}
}

// IsNotFound reports whether err means the addressed row is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// KindOf returns the Kind of a storage error, or 0 for other errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
