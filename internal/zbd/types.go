package zbd

import (
	"fmt"
	"net/http"
)

// Request describes one call to the ZBD API.
type Request struct {
	// Path is the endpoint relative to the base URL (e.g. "ln-address/send-payment")
	Path string

	// Method is the HTTP method; empty means GET
	Method string

	// Body is marshalled as the JSON request body when non-nil
	Body any

	// URLParam is escaped and appended as the last path segment
	// (e.g. a payment id or lightning address)
	URLParam string
}

// APIError is returned when the ZBD API answers with a non-2xx status.
type APIError struct {
	// Method and Path identify the request (without the URL parameter)
	Method string
	Path   string

	// StatusCode is the HTTP status returned by the API
	StatusCode int

	// Message is the API's "message" field, or the status text if absent
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("zbd %s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// RequestError represents a failure to complete a request or to read its
// response: transport errors, timeouts and bodies that are not JSON.
type RequestError struct {
	Method string
	Path   string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("zbd %s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RequestError) Unwrap() error {
	return e.Err
}
