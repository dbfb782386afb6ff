package incident

import (
	"errors"
	"fmt"
)

// ErrMalformedIncidentNumber marks a stored incident number whose suffix is not a
// non-negative integer. Allocation refuses to continue from such a record.
var ErrMalformedIncidentNumber = errors.New("malformed incident number")

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid incident input")
)

// IncidentError carries a stable code for the HTTP layer alongside the wrapped cause.
type IncidentError struct {
	Code    string
	Message string
	Err     error
}

func (e *IncidentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *IncidentError) Unwrap() error {
	return e.Err
}

func newTransitionError(from, to string) error {
	return &IncidentError{
		Code:    "invalidTransition",
		Message: fmt.Sprintf("cannot move incident from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func newInputError(msg string) error {
	return &IncidentError{
		Code:    "invalidInput",
		Message: msg,
		Err:     ErrInvalidInput,
	}
}
