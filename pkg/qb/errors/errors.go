package errors

import (
	"errors"
	"fmt"
)

var ErrStructuralConflict = fmt.Errorf("structural conflict")
var ErrUnresolvableValueURL = fmt.Errorf("unresolvable value url")
var ErrUnplaceableRDFFragment = fmt.Errorf("unplaceable rdf fragment")
var ErrMissingObservationBackReference = fmt.Errorf("missing observation back reference")
var ErrInvalidCube = fmt.Errorf("invalid cube")
var ErrDataValidation = fmt.Errorf("data validation failed")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewStructuralConflictError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrStructuralConflict,
	}
}

func NewUnresolvableValueURLError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrUnresolvableValueURL,
	}
}

func NewUnplaceableRDFFragmentError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrUnplaceableRDFFragment,
	}
}

func NewMissingObservationBackReferenceError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrMissingObservationBackReference,
	}
}

func NewInvalidCubeError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrInvalidCube,
	}
}

func NewDataValidationError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrDataValidation,
	}
}

// IsFatal reports whether err belongs to the taxonomy of errors that abort a build
func IsFatal(err error) bool {
	for _, target := range []error{
		ErrStructuralConflict,
		ErrUnresolvableValueURL,
		ErrUnplaceableRDFFragment,
		ErrMissingObservationBackReference,
		ErrInvalidCube,
		ErrDataValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
