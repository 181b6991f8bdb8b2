package ticket

import (
	"errors"
	"fmt"
	"strings"
)

// Result holds a successful ticket creation response.
type Result struct {
	// Message is the backend's confirmation text.
	Message string

	// TaskID is the created task's identifier in the target tool.
	TaskID string

	// URL links directly to the created task.
	URL string
}

// ErrorKind classifies submission failures.
type ErrorKind int

const (
	// KindAPI is a generic error reported by the backend.
	KindAPI ErrorKind = iota

	// KindValidation is a 422 with field-level detail.
	KindValidation

	// KindNetwork is a transport failure before any response arrived.
	KindNetwork

	// KindUnexpectedFormat is a reply whose body violates the contract,
	// including a 2xx with an unrecognizable success shape.
	KindUnexpectedFormat
)

// FieldError is one entry of a 422 validation detail list.
type FieldError struct {
	// Loc is the path to the offending field; entries are strings or
	// array indices (e.g. ["body", "name"]).
	Loc []any `json:"loc"`

	// Msg is the human-readable validation message.
	Msg string `json:"msg"`

	// Type is the machine-readable validation error code.
	Type string `json:"type"`
}

// FieldPath renders the location path for display, skipping the leading
// "body" segment.
func (f FieldError) FieldPath() string {
	var parts []string
	for i, seg := range f.Loc {
		if i == 0 && seg == "body" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", seg))
	}
	return strings.Join(parts, ".")
}

// Error is a classified submission failure. For validation errors the
// original detail list is attached so the UI can show per-field messages.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// AsError extracts a ticket *Error from err's chain, if present.
func AsError(err error) (*Error, bool) {
	var tErr *Error
	ok := errors.As(err, &tErr)
	return tErr, ok
}

// successResponse is the contract-conforming 2xx body.
type successResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
	URL     string `json:"url"`
}

// validationResponse is the 422 body shape.
type validationResponse struct {
	Detail []FieldError `json:"detail"`
}
