package script

import (
	"errors"
	"fmt"
)

// ErrRunnerClosed is returned when running a script on a closed Runner.
var ErrRunnerClosed = errors.New("script runner is closed")

// Error reports a script that failed to compile or raised an error.
type Error struct {
	// Name is the chunk name: a file path or "<string>".
	Name string
	// Err is the Lua error.
	Err error
	// Cause is the engine error raised through the editor table, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

// Unwrap returns the Lua error and the engine cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
