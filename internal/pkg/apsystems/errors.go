package apsystems

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload means the response did not match the expected record schema.
var ErrMalformedPayload = errors.New("malformed payload")

// TransportError is a network failure or a non-2xx HTTP status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("apsystems: %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("apsystems: %s %s: unexpected status code %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseError is an application-level rejection: the envelope code was not zero.
// Body holds the response exactly as received.
type ResponseError struct {
	Code int
	Body []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("apsystems: non zero response code %d: %s", e.Code, e.Body)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
