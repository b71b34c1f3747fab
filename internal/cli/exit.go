package cli

import (
	"errors"
	"fmt"
)

// Exit codes. Calling automation branches on these three signals.
const (
	ExitSuccess  = 0 // every check passed
	ExitDegraded = 1 // report written, but some checks failed or warned
	ExitFatal    = 2 // no report: session failure or command error
)

// ExitError carries the process exit code for a command failure.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// Fatal wraps an error as a fatal (exit 2) command failure.
func Fatal(message string, err error) *ExitError {
	return &ExitError{Code: ExitFatal, Message: message, Err: err}
}

// GetExitCode extracts the exit code from a command error. Errors that
// carry no code are treated as fatal.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFatal
}
