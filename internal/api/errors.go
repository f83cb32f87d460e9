package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedShape indicates a response body that is valid JSON but not
// the envelope the caller asked for.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// ErrNoToken indicates that no access token is available.
var ErrNoToken = errors.New("no access token available")

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 1024

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
