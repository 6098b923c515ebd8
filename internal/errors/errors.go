// Package errors carries the structured error type handlers return. It
// pairs an HTTP status with the wrapped error and optional per-field
// details, and knows how to cross the wire as JSON.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pitchside/pitchside/internal/pitchside"
)

// Error represents a universal error type between the handlers.
type Error struct {
	Status  int
	Err     error // The error this wraps
	Details []Detail
}

type Detail struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s, details: %v", e.Status, e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transport struct {
	Message string   `json:"message"`
	Details []Detail `json:"details"`
	Status  int      `json:"status"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(transport{
		Message: e.Err.Error(),
		Details: e.Details,
		Status:  e.Status,
	})
}

func (e *Error) UnmarshalJSON(byts []byte) error {
	t := transport{}
	if err := json.Unmarshal(byts, &t); err != nil {
		return err
	}

	e.Err = errors.New(t.Message)
	e.Details = t.Details
	e.Status = t.Status
	return nil
}

func E(args ...any) *Error {
	ret := &Error{
		Status:  http.StatusInternalServerError,
		Err:     nil,
		Details: nil,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	return ret
}

// Coerce maps domain sentinel errors onto their HTTP statuses. Anything
// unrecognized comes back as a 500 so handlers can return repository
// errors directly.
func Coerce(err error) *Error {
	structured := &Error{}
	if errors.As(err, &structured) {
		return structured
	}
	if errors.Is(err, pitchside.ErrNotFound) {
		return E(err, http.StatusNotFound)
	}
	if errors.Is(err, pitchside.ErrConflict) {
		return E(err, http.StatusConflict)
	}
	return E(err, http.StatusInternalServerError)
}
