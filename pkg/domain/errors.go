package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMode is matched by every UnknownModeError.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrMalformedOutcome is matched by every MalformedOutcomeError.
	ErrMalformedOutcome = errors.New("malformed action outcome")

	// ErrNotImplemented is returned by bricks that have no platform binding.
	ErrNotImplemented = errors.New("action not implemented")

	// ErrRunNotFound is returned when a run ID cannot be found in the store.
	ErrRunNotFound = errors.New("run not found")

	// ErrLocked is returned when another run holds the lock for a mode.
	ErrLocked = errors.New("mode is locked by another run")
)

// UnknownModeError is returned when a mode is not in the registry.
type UnknownModeError struct {
	Mode  string
	Valid []string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("invalid mode specified '%s', supported modes are: '%s'", e.Mode, strings.Join(e.Valid, ", "))
}

func (e *UnknownModeError) Unwrap() error { return ErrUnknownMode }

// ActionError wraps a failure raised by a brick. The run is aborted at Index.
type ActionError struct {
	Mode   string
	Index  int
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("mode '%s': action #%d '%s' failed: %v", e.Mode, e.Index, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// MalformedOutcomeError is returned when an outcome is neither a record
// sequence nor the structured results/params shape.
type MalformedOutcomeError struct {
	Action string
	Got    any
	Reason string
}

func (e *MalformedOutcomeError) Error() string {
	var b strings.Builder
	b.WriteString("malformed outcome")
	if e.Action != "" {
		fmt.Fprintf(&b, " from '%s'", e.Action)
	}
	fmt.Fprintf(&b, ": got %T", e.Got)
	if e.Reason != "" {
		b.WriteString(" (" + e.Reason + ")")
	}
	return b.String()
}

func (e *MalformedOutcomeError) Unwrap() error { return ErrMalformedOutcome }

// ParamValidationError reports declared parameters a brick did not receive
// or received with the wrong type.
type ParamValidationError struct {
	Action string
	Err    error
}

func (e *ParamValidationError) Error() string {
	return fmt.Sprintf("action '%s' has invalid params: %v", e.Action, e.Err)
}

func (e *ParamValidationError) Unwrap() error { return e.Err }
