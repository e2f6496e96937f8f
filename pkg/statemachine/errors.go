package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: from, to, and event cannot be nil")
	ErrInvalidEvent      = errors.New("statemachine: event cannot be nil")
)

// NoTransitionError indicates no transition is configured for the state/event pair.
type NoTransitionError struct {
	State string
	Event string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("statemachine: no transition from %q on %q", e.State, e.Event)
}

// TransitionRejectedError indicates every candidate transition was blocked by guards.
type TransitionRejectedError struct {
	State string
	Event string
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("statemachine: transition from %q on %q rejected by guards", e.State, e.Event)
}

// IsNoTransition reports whether err means the event is illegal in the current state.
func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

// IsRejected reports whether err means guards blocked the transition.
func IsRejected(err error) bool {
	var e *TransitionRejectedError
	return errors.As(err, &e)
}
