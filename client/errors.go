package client

import (
	"errors"
	"fmt"
)

// ErrDecode marks a response body that could not be parsed, including a
// JSON null where an object was expected.
var ErrDecode = errors.New("malformed response")

// APIError is a non-2xx backend reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API %d", e.Status)
	}
	return fmt.Sprintf("API %d: %s", e.Status, e.Message)
}

// IsAPIError reports whether err carries an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
