package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrSessionSuperseded  = errors.New("session changed while the request was in flight")
	ErrActionInFlight     = errors.New("action already in progress")
	ErrStaleResult        = errors.New("result superseded by a newer request")
	ErrNoSuccessor        = errors.New("status has no successor")
	ErrInvalidStatus      = errors.New("invalid product status")
	ErrProductNotInView   = errors.New("product not in current view")
	ErrUnexpectedPayload  = errors.New("product data was not returned in a valid format")

	// Identity response fail states.
	ErrMissingUserMarker  = errors.New("identity response missing user marker")
	ErrMissingRolesMarker = errors.New("identity response missing roles marker")
)

// NetworkError is a transport failure: no HTTP response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError is a non-2xx response from the API.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// ParseError reports an identity response that did not match the expected text.
type ParseError struct {
	Reason error
	Body   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse identity: %v", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Reason }

// FieldError is one failed client-side check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a form step or submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}
