package statemachine

import "context"

// State represents a state in the machine.
type State interface {
	Name() string
}

// Event represents a trigger that may cause a state transition.
type Event interface {
	Name() string
}

// Action executes side effects during a transition. Returning an error aborts
// the transition and leaves the machine in its current state.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard decides at runtime whether a transition is allowed.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Machine is a finite state machine with guarded, action-bearing transitions.
type Machine interface {
	// Current returns the machine's current state.
	Current() State

	// Fire applies an event, running guards and actions of the matching
	// transition. Returns a typed error when no transition exists or all
	// candidates were rejected by guards.
	Fire(ctx context.Context, event Event, data any) error

	// CanFire reports whether Fire would succeed for the event.
	CanFire(ctx context.Context, event Event, data any) bool

	// Reset returns the machine to its initial state.
	Reset()
}

// StringState is a string-based State for simple machines.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is a string-based Event for simple machines.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }
