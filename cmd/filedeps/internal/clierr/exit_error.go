package clierr

import (
	"errors"
	"fmt"
)

// Exit codes reported by the filedeps binary.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitManifest    = 3 // manifest missing, unreadable or invalid
	ExitCommandLine = 4 // a stored command line could not be tokenized
	ExitNoMatch     = 5 // the query matched nothing
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// errors.Is/As see through it to the cause.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: atLeastFailure(code), msg: msg}
}

// Newf is the formatted variant of New.
func Newf(code int, format string, args ...any) error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches an exit code and a message to cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: atLeastFailure(code), msg: msg, cause: cause}
}

// ExitCodeOf extracts an exit code from any error, defaulting to ExitFailure.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitFailure
}

// Zero would read as success.
func atLeastFailure(code int) int {
	if code <= 0 {
		return ExitFailure
	}
	return code
}
