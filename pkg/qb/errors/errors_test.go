package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestErrorsMatchTheirSentinel(t *testing.T) {
	is := is.New(t)

	err := NewStructuralConflictError("column %q mixes new and existing units", "Unit")

	is.True(errors.Is(err, ErrStructuralConflict))
	is.True(!errors.Is(err, ErrUnresolvableValueURL))
	is.Equal(err.Error(), `column "Unit" mixes new and existing units`)
}

func TestJoinedAndWrappedErrorsAreFatal(t *testing.T) {
	is := is.New(t)

	joined := errors.Join(
		NewUnplaceableRDFFragmentError("hint not permitted"),
		fmt.Errorf("while building: %w", NewMissingObservationBackReferenceError("no such column")),
	)

	is.True(IsFatal(joined))
	is.True(errors.Is(joined, ErrMissingObservationBackReference))
	is.True(!IsFatal(fmt.Errorf("some other problem")))
}
