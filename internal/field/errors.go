package field

import "fmt"

// ParameterError reports a missing or invalid construction parameter: an
// unregistered delegation target, or a required field the caller did not
// supply. It is the only error kind this package originates; everything else
// is propagated from callables and builders unchanged.
type ParameterError struct {
	Msg string
}

// NewParameterError builds a ParameterError from a format string.
func NewParameterError(format string, args ...any) *ParameterError {
	return &ParameterError{Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ParameterError) Error() string {
	return e.Msg
}
