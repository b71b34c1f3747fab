package verify

import (
	"errors"
	"fmt"
)

// ErrProcessManagerUnreachable marks failures of the process-manager query
// itself, as opposed to an individual expected service being absent.
var ErrProcessManagerUnreachable = errors.New("process manager unreachable")

// SessionError is the sole fatal condition of a run: the shared checking
// session could not be acquired. It propagates out of the orchestrator;
// every other probe error is converted into a fail result locally.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return "checking session unavailable: " + e.Err.Error()
}

func (e *SessionError) Unwrap() error { return e.Err }

// StatusError reports an HTTP response with a status other than 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}
