package wizard

import (
	"errors"
	"fmt"
)

// ErrInFlight is returned when a transition is triggered while an
// asynchronous operation for the current step is still running. Callers
// treat it as "ignore the trigger"; the running operation is unaffected.
var ErrInFlight = errors.New("an operation is already in flight")

// InputError is a local precondition failure (bad file, empty prompt).
// It never reaches the network and leaves the wizard in its current step
// so the user can correct the input.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// IsInputError reports whether err (or any error in its chain) is an
// InputError.
func IsInputError(err error) bool {
	var inErr *InputError
	return errors.As(err, &inErr)
}

// UnexpectedStateError signals a transition attempted in a step where it
// is not defined. It indicates a programming defect in the caller; the
// wizard resets itself defensively before returning it.
type UnexpectedStateError struct {
	Op   string
	Step Step
}

func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("cannot %s while in step %s", e.Op, e.Step)
}
