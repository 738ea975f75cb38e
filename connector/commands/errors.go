package commands

import (
	"fmt"

	"github.com/busbridge/busbridge/bus"
)

// Wire error codes. A response carries at most one of these.
const (
	// ErrCodeDispatch marks failures attributable to the transport or the
	// client plumbing.
	ErrCodeDispatch = "COMMAND_DISPATCH_ERROR"
	// ErrCodeExecution marks a local handler failing with a
	// non-concurrency error.
	ErrCodeExecution = "COMMAND_EXECUTION_ERROR"
	// ErrCodeConcurrency marks an optimistic-concurrency failure from the
	// local model.
	ErrCodeConcurrency = "CONCURRENCY_EXCEPTION"
)

// RemoteError is a classified failure reported by, or on behalf of, the
// remote end of a dispatch.
type RemoteError struct {
	Code     string
	Message  string
	Location string
	Details  []string
}

func (e *RemoteError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Location)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// classifyExecution maps a local execution failure onto its wire code.
func classifyExecution(err error) string {
	if bus.IsConcurrencyError(err) {
		return ErrCodeConcurrency
	}
	return ErrCodeExecution
}
