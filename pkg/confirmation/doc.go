// Package confirmation resolves the final outcome of a checkout after the
// user returns from the payment step.
//
// The resolver fetches the intent's settled status from the gateway exactly
// once, classifies it as succeeded, failed, or unknown, and on success
// schedules a timed, cancellable handoff to the application's downstream
// route. It never lets an error escape its boundary: an unresolvable status
// always yields a renderable Result carrying the intent ID for support
// lookup, never a blank state. The only hard error is a missing intent ID in
// the redirect, which the caller must answer with a redirect back to plan
// selection.
package confirmation
