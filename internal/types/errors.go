package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed record data. Not retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSourceUnavailable marks a record source that could not be read.
	ErrSourceUnavailable = errors.New("record source unavailable")
	// ErrInvalidParams marks query parameters that failed validation.
	ErrInvalidParams = errors.New("invalid query parameters")
)

// InputError points at the first record that failed validation.
type InputError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: record %d: field %q %s", e.Index, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// FieldError describes one rejected request parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ParamsError carries every rejected request parameter.
type ParamsError struct {
	Details []FieldError
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid query parameters: %d field(s) rejected", len(e.Details))
}

func (e *ParamsError) Unwrap() error {
	return ErrInvalidParams
}
