package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a rejection by the task service: a non-2xx status or a
// response body that could not be parsed into the expected shape.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is the service rejecting the caller's
// credentials or token.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsRemoteError reports whether err is any rejection by the service, as
// opposed to a transport failure that never produced a response.
func IsRemoteError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}
