package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a message before it reaches the state machine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBookingFailed marks a calendar write that did not go through.
	ErrBookingFailed = errors.New("booking failed")
	// ErrIllegalTransition is an internal failure: a step tried an edge the
	// transition table does not allow.
	ErrIllegalTransition = errors.New("illegal state transition")
)

// StepError is an unexpected failure caught at a step boundary.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
