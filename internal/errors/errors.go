package errors

import (
	"errors"
	"fmt"
)

// Common error types for the console
var (
	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("malformed token")

	// Refresh errors. Rejection and unavailability both wrap ErrRefreshFailed.
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrNoRefreshToken     = fmt.Errorf("%w: refresh token not found", ErrRefreshFailed)
	ErrRefreshRejected    = fmt.Errorf("%w: refresh token rejected", ErrRefreshFailed)
	ErrRefreshUnavailable = fmt.Errorf("%w: refresh endpoint unavailable", ErrRefreshFailed)

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Request errors
	ErrUnauthorized         = errors.New("unauthorized")
	ErrDuplicateSubmission  = errors.New("request already in progress")
	ErrRequestNotReplayable = errors.New("request body cannot be replayed")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import
func New(text string) error {
	return errors.New(text)
}
