// Package output provides structured output and error handling for the steward CLI.
package output

import "errors"

// Exit codes:
// 0 = Success
// 1 = User error (bad args, not a project root, not found)
// 2 = System error (subprocess failed, I/O error)
// 3 = Conflict (task already claimed, state mismatch)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
)

// ExitError carries a process exit code alongside the message. The
// Cause, when set, is reachable through errors.Is/errors.As but is
// never shown to the user.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string { return e.Message }

func (e *ExitError) Unwrap() error { return e.Cause }

// NewUserError reports a user-caused problem (exit code 1): bad
// arguments, missing project marker, unknown task ID.
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewSystemError reports an environment failure (exit code 2):
// subprocess failures, I/O errors, a missing external tool.
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause is NewSystemError with a wrapped cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewConflictError reports a state conflict (exit code 3): task already
// completed, marker files disagreeing with the record.
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// GetExitCode maps an error to the process exit code. nil is success;
// untyped errors count as user errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
