package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the payload field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field failures from the domain layer up to
// whatever edge (HTTP handler, terminal client) has to render them.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap flattens Fields for rendering; nil when there are none.
func (err *ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	flds := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		flds[fErr.Field] = fErr.Error
	}
	return flds
}

type shutdownError struct {
	msg string
}

// NewShutdownError flags a fault the process cannot recover from; the server
// drains and exits when one surfaces.
func NewShutdownError(msg string) error { return &shutdownError{msg} }

func (err *shutdownError) Error() string { return err.msg }

// IsShutdown reports whether err (or its cause) requests a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
