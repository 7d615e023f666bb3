package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the payload field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a user-facing input error. The API layer renders
// Fields as a {field: message} object; Err alone renders as a plain
// error message.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error the process cannot recover from; the server
// loop traps it and terminates gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks if an error in its chain contains a shutdown error.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
