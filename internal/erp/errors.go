package erp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindServer      ErrorKind = "server"
	KindAPI         ErrorKind = "api"
)

// Error is a classified gateway error. Retryable reports whether the caller
// may reasonably retry the whole call; errors surfaced after the retry
// budget is spent are not retryable.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Retryable  bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("erp %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("erp %s error: %s", e.Kind, e.Message)
}

// AsError unwraps a classified gateway error, or returns nil
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsAuthError reports whether err is a login failure
func IsAuthError(err error) bool {
	e := AsError(err)
	return e != nil && e.Kind == KindAuth
}

// IsTimeout reports whether err is an exhausted-timeout failure
func IsTimeout(err error) bool {
	e := AsError(err)
	return e != nil && e.Kind == KindTimeout
}
