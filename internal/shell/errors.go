package shell

import (
	"fmt"
	"strings"
)

// SpawnError reports that the external process could not be started at all
// (missing binary, permission, bad working directory).
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// SignalError reports that the external process was terminated by a signal
// rather than exiting on its own.
type SignalError struct {
	Command []string
	State   string
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("command %q terminated abnormally: %s", strings.Join(e.Command, " "), e.State)
}

// ExitError reports a non-zero exit from a step whose failure the caller
// chose to treat as fatal. The orchestrator's own exit code mirrors Code.
type ExitError struct {
	Command []string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", strings.Join(e.Command, " "), e.Code)
}
