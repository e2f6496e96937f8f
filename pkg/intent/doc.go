// Package intent requests payment intents from the remote gateway with
// bounded retry and linearly increasing backoff.
//
// The orchestrator is stateless: it returns a Handle for the checkout session
// to apply, and never mutates session state itself. Retry applies only to
// network-class failures (transport errors and per-attempt timeouts); any
// response the gateway actually returned, including a rejected promotion
// code or plan, is final and handed back to the caller unmodified.
//
// Defaults follow the checkout policy: 3 attempts total, a 10 second deadline
// per attempt, and backoff of attempt × 1s between retries. All three are
// configurable through options.
package intent
