package errors

import (
	"errors"
	"fmt"
)

// Errors shared across the sign-in packages
var (
	// Presentation errors
	ErrMissingMarkup = errors.New("missing markup")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionKeyNotFound = errors.New("session key not found")

	// Submission errors
	ErrAttemptInFlight = errors.New("sign-in attempt already in flight")

	// General errors
	ErrInvalidArgument = errors.New("invalid argument")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
