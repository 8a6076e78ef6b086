package core

import (
	"errors"
)

var (
	// ErrCancelled is returned when the user declines a confirmation prompt.
	ErrCancelled = errors.New("operation cancelled by the user")

	// ErrMissingCredentials is returned when no API key or hub address is configured.
	ErrMissingCredentials = errors.New("API key and IP address are required. Use --api-key and --ip flags or configure them in .hsk.json")
)

// OperationError is a command-level failure. Its message names the command
// that failed; the underlying error is kept as the cause.
type OperationError struct {
	Message string
	Cause   error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

func wrapOp(message string, cause error) error {
	return &OperationError{Message: message, Cause: cause}
}

// Causes returns the chain of errors below err, outermost first, without err
// itself. Joined errors contribute each of their members.
func Causes(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				out = append(out, next)
				walk(next)
			}
		case interface{ Unwrap() []error }:
			for _, next := range u.Unwrap() {
				out = append(out, next)
				walk(next)
			}
		}
	}
	if err != nil {
		walk(err)
	}
	return out
}
