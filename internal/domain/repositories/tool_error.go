package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrToolTimeout is returned when an invocation exceeded its timeout and was killed.
	ErrToolTimeout = errors.New("tool invocation timed out")
	// ErrOutputLimit is returned when an invocation wrote more than its output limit and was killed.
	ErrOutputLimit = errors.New("tool output exceeded the size limit")
	// ErrToolNotFound is returned when the external tool is not installed.
	ErrToolNotFound = errors.New("tool executable not found")
)

// ToolError is a failed git invocation. Error() names the sub-command only;
// Stderr keeps the raw diagnostics, which may embed credentials.
type ToolError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Command, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
