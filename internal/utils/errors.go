package utils

import "fmt"

// RipError is an error annotated with the operation that produced it.
type RipError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *RipError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Wrapf is WrapError with a formatted context. A nil cause yields nil.
func Wrapf(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &RipError{Context: fmt.Sprintf(format, args...), Cause: cause}
}

// WrapError creates a contextual error. A nil cause yields nil.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &RipError{
		Context: context,
		Cause:   cause,
	}
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *RipError) Unwrap() error {
	return e.Cause
}
