// Package checkout implements the subscription checkout session: the
// aggregate that turns a user's plan, billing-cycle, and coupon selections
// into a confirmed payment.
//
// The session drives an explicit state machine
//
//	idle → plan_selected → intent_pending → intent_ready → submitting
//	     → (succeeded | failed) → idle
//
// and owns the single authoritative payment intent handle. Plan, cycle, or
// coupon changes supersede any in-flight intent request; superseded responses
// are identified by sequence number and discarded, so rapid cycle toggling can
// never apply an out-of-order result. Cycle toggles are additionally debounced
// to a settle window, producing exactly one gateway request for the final
// value.
//
// Free plans short-circuit the entire payment path: no intent is created, no
// payment surface opens, and the free-plan callback fires immediately.
//
// Every failure is resolved inside the session and collapsed into one of a
// small set of user-facing error surfaces (plan, coupon, payment); nothing
// escapes unclassified. A promotion code rejected at intent-creation time,
// after the validator accepted it, is reported as a distinct coupon error
// and the code is cleared, since the create-intent call is the authoritative
// check and the validator is advisory.
package checkout
