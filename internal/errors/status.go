package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// StatusError represents a non-success HTTP response from a remote source.
type StatusError struct {
	Source     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		return fmt.Sprintf("%s returned HTTP %d for %s", e.Source, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s returned HTTP %d %s for %s", e.Source, e.StatusCode, text, e.URL)
}

// NewStatusError creates a StatusError for the given response status.
func NewStatusError(source, url string, statusCode int) *StatusError {
	return &StatusError{
		Source:     source,
		URL:        url,
		StatusCode: statusCode,
	}
}

// IsStatusError checks if err is a StatusError
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return stdErrors.As(err, &statusErr)
}

// StatusCode returns the HTTP status code carried by err, or 0 when err is
// not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if stdErrors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a StatusError for HTTP 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
