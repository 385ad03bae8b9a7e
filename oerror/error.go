package oerror

import "fmt"

// OomphError is the error type returned across the module for invalid
// configuration and exhausted registries.
type OomphError struct {
	Err string
}

// New formats a new OomphError.
func New(format string, args ...any) *OomphError {
	if len(args) == 0 {
		return &OomphError{Err: format}
	}
	return &OomphError{Err: fmt.Sprintf(format, args...)}
}

func (e *OomphError) Error() string {
	return e.Err
}
