package subprocess

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrStart        = errors.New("failed to start process")
	ErrWait         = errors.New("failed waiting for process")
	ErrNonZeroExit  = errors.New("process exited with non-zero status")
)

// ExitError reports a process that ran to completion with a failing status.
// errors.Is(err, ErrNonZeroExit) holds for it.
type ExitError struct {
	// Code is the exit status, or -1 if the process was killed by a signal.
	Code int
	// State is the platform description, e.g. "exit status 2" or "signal: killed".
	State string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNonZeroExit, e.State)
}

func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}
