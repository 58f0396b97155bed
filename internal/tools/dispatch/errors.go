package dispatch

import (
	"errors"
	"fmt"
)

// ToolNotFoundError is returned when no tool is registered under Name.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// HandlerError wraps a failure raised by a tool handler, including panics.
// Its message is the handler's own message.
type HandlerError struct {
	Tool string
	Err  error
}

func (e *HandlerError) Error() string {
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// IsHard reports whether err (or an error it wraps) declares itself a hard
// failure that must be surfaced as a protocol error rather than in-band.
func IsHard(err error) bool {
	var h interface{ Hard() bool }
	return errors.As(err, &h) && h.Hard()
}

// errNoResult is reported for handlers that return neither a result nor an error.
var errNoResult = errors.New("handler returned no result")
