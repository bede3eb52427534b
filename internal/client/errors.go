package client

import "fmt"

// StatusError reports a non-2xx response from the remote API.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api request %s failed: %s", e.URL, e.Status)
}

// DecodeError reports a response body that could not be parsed or that
// failed shape validation.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
