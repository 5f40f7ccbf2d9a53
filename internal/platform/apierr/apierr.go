package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error that already knows how it should be rendered to an HTTP caller.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, errors.New(msg))
}

func BadRequest(code, msg string) *Error {
	return New(http.StatusBadRequest, code, errors.New(msg))
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an *Error.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine-readable code carried by err, or "internal_error".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal_error"
}

func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}

func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}
