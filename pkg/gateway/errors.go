package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBaseURL  = errors.New("gateway: base URL is required")
	ErrMissingAPIKey   = errors.New("gateway: API key is required")
	ErrNotConfigured   = errors.New("gateway: client is not configured")
	ErrMalformedReply  = errors.New("gateway: malformed response body")
	ErrIntentNotFound  = errors.New("gateway: payment intent not found")
	ErrRequestRejected = errors.New("gateway: request rejected")
)

// Class groups gateway failures by how the caller should react.
//
//   - ClassValidation: business rejection, never retried.
//   - ClassRateLimit: surfaced with a wait-and-retry message, never auto-retried.
//   - ClassServer: gateway-side 5xx, treated like validation for retry purposes
//     since short retries against a failing dependency offer no benefit.
//   - ClassNetwork: transport error, timeout, or abort; the only retryable class.
type Class int

const (
	ClassValidation Class = iota
	ClassRateLimit
	ClassServer
	ClassNetwork
)

// Gateway-reported error kinds from the structured error body.
const (
	KindInvalidPlan          = "invalid_plan"
	KindInvalidPromotionCode = "invalid_promotion_code"
	KindRateLimited          = "rate_limited"
	KindInternal             = "internal"
)

// Error is a classified gateway failure. Kind preserves the gateway's own
// error kind when a structured body was returned, so callers can react to
// specific rejections (e.g. a promotion code refused at intent-creation time).
type Error struct {
	Class      Class
	Kind       string
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("gateway: %s (%s)", e.Message, e.Kind)
	}
	if e.cause != nil {
		return fmt.Sprintf("gateway: %s: %v", e.Message, e.cause)
	}
	return "gateway: " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// IsRetryable reports whether the error is a network-class failure that the
// intent orchestrator may retry. All gateway-returned error bodies are final.
func IsRetryable(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Class == ClassNetwork
}

// IsRateLimited reports whether the gateway asked the caller to slow down.
func IsRateLimited(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Class == ClassRateLimit
}

// IsPromotionCodeRejected reports whether the gateway refused the promotion
// code itself, as opposed to some other part of the request.
func IsPromotionCodeRejected(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == KindInvalidPromotionCode
}

// IsPlanRejected reports whether the gateway refused the plan identifier.
func IsPlanRejected(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == KindInvalidPlan
}
