package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded
// into the expected record type.
var ErrMalformedResponse = errors.New("malformed response")

// ErrMissingID is returned by single-record calls given a zero id, which
// would otherwise address the whole collection.
var ErrMissingID = errors.New("missing record id")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	// Message is the server's "message" or "error" field, if it sent one.
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.text())
}

func (e *HTTPError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsMalformed reports whether err wraps ErrMalformedResponse.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// Message reduces any gateway error to the single line a page shows the
// user: the server's own message when it sent one, "HTTP <code>: <status>"
// when it did not, and the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("HTTP %d: %s", httpErr.StatusCode, http.StatusText(httpErr.StatusCode))
	}
	if IsMalformed(err) {
		return "unexpected response from server"
	}
	return err.Error()
}
