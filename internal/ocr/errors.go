package ocr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a submission failure
type ErrorType string

const (
	// ErrTypeValidation indicates the form had no usable input; nothing was sent
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeServer indicates a non-2xx response carrying an "error" field
	ErrTypeServer ErrorType = "server"

	// ErrTypeServerUnstructured indicates a non-2xx response without an "error" field
	ErrTypeServerUnstructured ErrorType = "server_unstructured"

	// ErrTypeTransport indicates a network failure, timeout or undecodable response
	ErrTypeTransport ErrorType = "transport"
)

// Sentinels usable with errors.Is to test the category of an *Error.
var (
	ErrValidation         = &Error{Type: ErrTypeValidation}
	ErrServer             = &Error{Type: ErrTypeServer}
	ErrServerUnstructured = &Error{Type: ErrTypeServerUnstructured}
	ErrTransport          = &Error{Type: ErrTypeTransport}
)

// Error is the single error type produced by the OCR client and the form
type Error struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message is the user-facing text for this error
	Message string `json:"message"`

	// Field names the missing input for validation errors
	Field string `json:"field,omitempty"`

	// StatusCode for server errors
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error for transport failures
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}

	parts = append(parts, e.DisplayMessage())

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same type
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Type == t.Type
	}
	return false
}

// DisplayMessage returns the text shown in the form's error slot
func (e *Error) DisplayMessage() string {
	if e.Type == ErrTypeTransport {
		cause := e.Message
		if e.Cause != nil {
			cause = e.Cause.Error()
		}
		return "network error: " + cause
	}
	return e.Message
}

// NewValidationError creates an error for a missing form input
func NewValidationError(field, message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Field:   field,
		Message: message,
	}
}

// NewServerError creates an error from a non-2xx response. When the body
// carried no message, the text is synthesized from the status line.
func NewServerError(statusCode int, statusText, message string) *Error {
	if message != "" {
		return &Error{
			Type:       ErrTypeServer,
			Message:    message,
			StatusCode: statusCode,
		}
	}
	return &Error{
		Type:       ErrTypeServerUnstructured,
		Message:    fmt.Sprintf("Error %d: %s", statusCode, statusText),
		StatusCode: statusCode,
	}
}

// NewTransportError wraps a network or decoding failure
func NewTransportError(cause error) *Error {
	return &Error{
		Type:  ErrTypeTransport,
		Cause: cause,
	}
}

// DisplayMessage converts any error into form display text. Errors that did
// not come from this package are treated as transport failures.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.DisplayMessage()
	}
	return NewTransportError(err).DisplayMessage()
}
