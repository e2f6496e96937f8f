// Package coupon validates user-entered promotion codes against the payment
// gateway and models the lifecycle of a single validation attempt.
//
// The validator's answer is advisory: the gateway re-checks the code when the
// payment intent is created, and the intent-creation response is the
// authoritative one. A code the validator rejects is terminal for that
// attempt; the checkout session clears the code field instead of retrying.
// Transport failures are reported as ErrValidationUnavailable and left to the
// user to retry manually.
//
// A 100%-off code is flagged as a full discount with a distinguished message
// so the checkout flow can branch to a zero-amount intent.
package coupon
