package confirmation

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

// Status classifies the settled payment intent.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusUnknown   Status = "unknown"
)

// Metadata keys the gateway attaches to intents created with a promotion code.
const (
	metaPromotionCode      = "promotion_code"
	metaDiscountPercentage = "discount_percentage"
)

// Result is created once, right after the redirect-back page loads, and is
// read-only thereafter. RawStatus preserves the gateway's own wording for
// non-success states so support can look the intent up.
type Result struct {
	IntentID           string
	Status             Status
	RawStatus          string
	AmountCaptured     int64
	PaymentMethod      string
	AppliedCouponCode  string
	DiscountPercentage int64
	Message            string
}

// Succeeded reports whether the payment settled successfully.
func (r Result) Succeeded() bool { return r.Status == StatusSucceeded }

// GatewayClient is the slice of the payment gateway the resolver needs.
type GatewayClient interface {
	GetIntentStatus(ctx context.Context, intentID string) (*gateway.IntentStatusResponse, error)
}

// Resolver fetches the final intent status after the post-payment redirect and
// schedules the timed handoff to the rest of the application.
type Resolver struct {
	gw           GatewayClient
	handoffDelay time.Duration
	navigate     func(intentID string)
	log          *slog.Logger

	mu      sync.Mutex
	handoff *time.Timer
}

// Option configures a Resolver during construction.
type Option func(*Resolver)

// WithHandoffDelay sets the pause before the automatic redirect fires.
func WithHandoffDelay(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.handoffDelay = d
		}
	}
}

// WithNavigator registers the navigation trigger invoked after a successful
// confirmation settles on screen.
func WithNavigator(fn func(intentID string)) Option {
	return func(r *Resolver) { r.navigate = fn }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a confirmation resolver. Panics on a nil gateway client
// to fail fast during initialization.
func NewResolver(gw GatewayClient, opts ...Option) *Resolver {
	if gw == nil {
		panic("confirmation: gateway client is required")
	}

	r := &Resolver{
		gw:           gw,
		handoffDelay: 3 * time.Second,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches the intent's settled status exactly once and classifies it.
//
// A missing intent ID is a routing error: the caller must redirect back to
// plan selection instead of rendering anything. Every other failure mode
// yields a rendered result: a fetch error or unrecognized status becomes a
// terminal Unknown/Failed result carrying the intent ID for support lookup.
// The status read is not retried: it is a read of already-settled state, and
// surfacing a clear failure beats silently retrying indefinitely.
//
// On success the automatic handoff is scheduled; Stop cancels it if the
// caller tears down first.
func (r *Resolver) Resolve(ctx context.Context, intentID string) (Result, error) {
	if intentID == "" {
		return Result{}, ErrMissingIntentID
	}

	resp, err := r.gw.GetIntentStatus(ctx, intentID)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to fetch intent status",
			slog.String("intent_id", intentID),
			slog.Any("error", err))
		return Result{
			IntentID: intentID,
			Status:   StatusUnknown,
			Message:  "We could not confirm the payment. Quote this reference to support: " + intentID,
		}, nil
	}

	result := Result{
		IntentID:  intentID,
		RawStatus: resp.Status,
	}

	switch resp.Status {
	case gateway.IntentStatusSucceeded, gateway.IntentStatusApproved:
		result.Status = StatusSucceeded
		result.AmountCaptured = resp.AmountCaptured
		result.PaymentMethod = resp.PaymentMethod
		result.AppliedCouponCode = resp.Metadata[metaPromotionCode]
		if raw, ok := resp.Metadata[metaDiscountPercentage]; ok {
			if pct, err := strconv.ParseInt(raw, 10, 64); err == nil {
				result.DiscountPercentage = pct
			}
		}
		r.scheduleHandoff(intentID)
	case gateway.IntentStatusFailed, gateway.IntentStatusCanceled:
		result.Status = StatusFailed
		result.Message = "Payment did not complete. Reference: " + intentID
	default:
		result.Status = StatusUnknown
		result.Message = "Payment is in an unexpected state. Reference: " + intentID
	}

	return result, nil
}

// Stop cancels a pending handoff, for when the confirmation view is torn down
// before the delay elapses.
func (r *Resolver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handoff != nil {
		r.handoff.Stop()
		r.handoff = nil
	}
}

func (r *Resolver) scheduleHandoff(intentID string) {
	if r.navigate == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handoff != nil {
		r.handoff.Stop()
	}
	r.handoff = time.AfterFunc(r.handoffDelay, func() {
		r.navigate(intentID)
	})
}
