// Package statemachine implements a small thread-safe finite state machine
// with guarded, action-bearing transitions.
//
// The machine is built from a static transition table at construction time.
// Illegal events return a typed NoTransitionError instead of being guarded ad
// hoc at call sites, which keeps multi-step flows like checkout from ever
// entering an unrepresentable state (e.g. submitting payment with no intent).
//
//	sm := statemachine.MustNew(stateIdle,
//		statemachine.WithTransition(stateIdle, statePending, eventStart, nil, nil),
//		statemachine.WithTransition(statePending, stateDone, eventFinish, nil, nil),
//	)
//	err := sm.Fire(ctx, eventStart, nil)
package statemachine
