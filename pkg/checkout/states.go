package checkout

import "github.com/dmitrymomot/checkoutkit/pkg/statemachine"

// Session states. The tagged state value replaces scattered boolean flags so
// illegal moves (e.g. submitting with no intent) surface as typed errors.
const (
	StateIdle          = statemachine.StringState("idle")
	StatePlanSelected  = statemachine.StringState("plan_selected")
	StateIntentPending = statemachine.StringState("intent_pending")
	StateIntentReady   = statemachine.StringState("intent_ready")
	StateSubmitting    = statemachine.StringState("submitting")
	StateSucceeded     = statemachine.StringState("succeeded")
	StateFailed        = statemachine.StringState("failed")
)

// Session events.
const (
	eventSelectPlan    = statemachine.StringEvent("select_plan")
	eventRequestIntent = statemachine.StringEvent("request_intent")
	eventIntentReady   = statemachine.StringEvent("intent_ready")
	eventIntentFailed  = statemachine.StringEvent("intent_failed")
	eventSubmit        = statemachine.StringEvent("submit_payment")
	eventConfirmed     = statemachine.StringEvent("payment_confirmed")
	eventRejected      = statemachine.StringEvent("payment_rejected")
	eventRetry         = statemachine.StringEvent("retry_payment")
	eventClose         = statemachine.StringEvent("close")
)

// newSessionMachine builds the checkout transition table.
func newSessionMachine() statemachine.Machine {
	return statemachine.MustNew(StateIdle,
		statemachine.WithTransition(StateIdle, StatePlanSelected, eventSelectPlan, nil, nil),
		statemachine.WithTransition(StatePlanSelected, StatePlanSelected, eventSelectPlan, nil, nil),

		statemachine.WithTransition(StatePlanSelected, StateIntentPending, eventRequestIntent, nil, nil),
		// Superseding an in-flight request stays pending.
		statemachine.WithTransition(StateIntentPending, StateIntentPending, eventRequestIntent, nil, nil),
		// Cycle or coupon changes while ready/failed re-request with new amounts.
		statemachine.WithTransition(StateIntentReady, StateIntentPending, eventRequestIntent, nil, nil),
		statemachine.WithTransition(StateFailed, StateIntentPending, eventRequestIntent, nil, nil),

		statemachine.WithTransition(StateIntentPending, StateIntentReady, eventIntentReady, nil, nil),
		statemachine.WithTransition(StateIntentPending, StatePlanSelected, eventIntentFailed, nil, nil),

		statemachine.WithTransition(StateIntentReady, StateSubmitting, eventSubmit, nil, nil),
		statemachine.WithTransition(StateSubmitting, StateSucceeded, eventConfirmed, nil, nil),
		statemachine.WithTransition(StateSubmitting, StateFailed, eventRejected, nil, nil),

		// A failed payment may be retried against the same intent.
		statemachine.WithTransition(StateFailed, StateIntentReady, eventRetry, nil, nil),

		// Closing the payment surface abandons the attempt but keeps the plan.
		statemachine.WithTransition(StateIntentPending, StatePlanSelected, eventClose, nil, nil),
		statemachine.WithTransition(StateIntentReady, StatePlanSelected, eventClose, nil, nil),
		statemachine.WithTransition(StateSubmitting, StatePlanSelected, eventClose, nil, nil),
		statemachine.WithTransition(StateFailed, StatePlanSelected, eventClose, nil, nil),
	)
}
