package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// transition is one configured edge of the machine.
type transition struct {
	to      State
	guards  []Guard
	actions []Action
}

type machine struct {
	initial State
	current State
	// [fromState][event] -> candidate transitions, checked in order.
	edges map[string]map[string][]transition
	mu    sync.RWMutex
}

// Option configures a machine during construction.
type Option func(*machine) error

// New creates a state machine starting in the given initial state.
func New(initial State, opts ...Option) (Machine, error) {
	if initial == nil {
		return nil, fmt.Errorf("statemachine: initial state cannot be nil")
	}

	m := &machine{
		initial: initial,
		current: initial,
		edges:   make(map[string]map[string][]transition),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on error, for machines built from static
// transition tables at startup.
func MustNew(initial State, opts ...Option) Machine {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

// WithTransition adds an edge from -> to on event. Multiple edges may share a
// from/event pair; the first whose guards all pass wins, enabling
// guard-based branching.
func WithTransition(from, to State, event Event, guards []Guard, actions []Action) Option {
	return func(m *machine) error {
		if from == nil || to == nil || event == nil {
			return ErrInvalidTransition
		}

		fromName := from.Name()
		if _, ok := m.edges[fromName]; !ok {
			m.edges[fromName] = make(map[string][]transition)
		}
		eventName := event.Name()
		m.edges[fromName][eventName] = append(m.edges[fromName][eventName], transition{
			to:      to,
			guards:  guards,
			actions: actions,
		})
		return nil
	}
}

func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	candidates, ok := m.edges[m.current.Name()][event.Name()]
	if !ok || len(candidates) == 0 {
		return &NoTransitionError{State: m.current.Name(), Event: event.Name()}
	}

	t := m.pick(ctx, candidates, event, data)
	if t == nil {
		return &TransitionRejectedError{State: m.current.Name(), Event: event.Name()}
	}

	for _, action := range t.actions {
		if action == nil {
			continue
		}
		if err := action(ctx, m.current, t.to, event, data); err != nil {
			return fmt.Errorf("statemachine: action failed: %w", err)
		}
	}

	m.current = t.to
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates, ok := m.edges[m.current.Name()][event.Name()]
	if !ok {
		return false
	}
	return m.pick(ctx, candidates, event, data) != nil
}

// pick returns the first candidate whose guards all pass. Caller holds the lock.
func (m *machine) pick(ctx context.Context, candidates []transition, event Event, data any) *transition {
	for i := range candidates {
		passed := true
		for _, guard := range candidates[i].guards {
			if guard != nil && !guard(ctx, m.current, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return &candidates[i]
		}
	}
	return nil
}

func (m *machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
