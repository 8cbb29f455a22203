package services

import (
	"errors"
	"fmt"
)

// Marker errors classifying service failures. Handlers pick an HTTP status
// with errors.Is; the wrappers keep the user-facing message intact.
var (
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
)

type classifiedError struct {
	msg  string
	kind error
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.kind }

func permissionError(msg string) error {
	return &classifiedError{msg: msg, kind: ErrPermission}
}

func invalidError(msg string) error {
	return &classifiedError{msg: msg, kind: ErrInvalidInput}
}

func invalidErrorf(format string, args ...interface{}) error {
	return invalidError(fmt.Sprintf(format, args...))
}
