package intent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

// HandleStatus tracks the lifecycle of a payment intent handle.
type HandleStatus string

const (
	HandleNone       HandleStatus = "none"
	HandleRequesting HandleStatus = "requesting"
	HandleReady      HandleStatus = "ready"
	HandleError      HandleStatus = "error"
)

// Handle references one payment intent minted by the gateway. The checkout
// session owns exactly one authoritative handle at a time and replaces it
// whenever plan, cycle, or applied coupon changes.
type Handle struct {
	IntentID        string
	ClientSecret    string
	RequestedAmount int64
	FinalAmount     int64
	Status          HandleStatus
}

// GatewayClient is the slice of the payment gateway the orchestrator needs.
type GatewayClient interface {
	CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (*gateway.CreateIntentResponse, error)
}

// Orchestrator requests payment intents from the gateway with bounded retry.
// It is stateless and safe for concurrent use by multiple checkout sessions;
// superseding of in-flight requests is the session's responsibility.
type Orchestrator struct {
	gw             GatewayClient
	maxAttempts    int
	attemptTimeout time.Duration
	backoff        BackoffStrategy
	log            *slog.Logger
}

// Option configures an Orchestrator during construction.
type Option func(*Orchestrator)

// WithMaxAttempts bounds the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithAttemptTimeout sets the per-attempt deadline after which the request is
// aborted and, when attempts remain, retried.
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.attemptTimeout = d
		}
	}
}

// WithBackoff overrides the delay strategy between retry attempts.
func WithBackoff(b BackoffStrategy) Option {
	return func(o *Orchestrator) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithLogger sets a structured logger for attempt diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator creates an intent orchestrator with the default policy:
// 3 attempts total, 10s per attempt, linear backoff. Panics on a nil gateway
// client to fail fast during initialization.
func NewOrchestrator(gw GatewayClient, opts ...Option) *Orchestrator {
	if gw == nil {
		panic("intent: gateway client is required")
	}

	o := &Orchestrator{
		gw:             gw,
		maxAttempts:    3,
		attemptTimeout: 10 * time.Second,
		backoff:        DefaultBackoffStrategy(),
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RequestIntent asks the gateway to mint a payment intent for the plan/cycle
// pair, with the coupon code applied when non-empty.
//
// Only network-class failures (transport error, per-attempt timeout) are
// retried; any error body the gateway returns is classified and handed back
// immediately, since retrying a rejection cannot succeed. Each request carries
// a fresh idempotency key so the gateway can deduplicate a retried create.
func (o *Orchestrator) RequestIntent(ctx context.Context, plan catalog.Plan, cycle catalog.BillingCycle, couponCode string) (Handle, error) {
	if plan.ID == "" {
		return Handle{Status: HandleError}, ErrPlanRequired
	}
	if plan.IsFree() {
		// Free plans never reach the payment path.
		return Handle{Status: HandleError}, ErrFreePlan
	}
	if !cycle.Valid() {
		cycle = catalog.DefaultCycle
	}

	req := gateway.CreateIntentRequest{
		PlanID:         plan.ID,
		BillingCycle:   string(cycle),
		PromotionCode:  couponCode,
		IdempotencyKey: uuid.NewString(),
	}

	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := o.backoff.NextInterval(attempt - 1)
			select {
			case <-ctx.Done():
				return Handle{Status: HandleError}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := o.createOnce(ctx, req)
		if err == nil {
			if resp.FinalAmount < 0 || resp.FinalAmount > resp.RequestedAmount {
				// The gateway computed a nonsensical discount; do not let it
				// reach the payment surface.
				return Handle{Status: HandleError}, fmt.Errorf("%w: requested %d, final %d",
					ErrInvalidAmounts, resp.RequestedAmount, resp.FinalAmount)
			}
			return Handle{
				IntentID:        resp.IntentID,
				ClientSecret:    resp.ClientSecret,
				RequestedAmount: resp.RequestedAmount,
				FinalAmount:     resp.FinalAmount,
				Status:          HandleReady,
			}, nil
		}

		lastErr = err
		if !gateway.IsRetryable(err) {
			return Handle{Status: HandleError}, err
		}

		o.log.WarnContext(ctx, "payment intent attempt failed",
			slog.String("plan_id", plan.ID),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}

	return Handle{Status: HandleError}, fmt.Errorf("%w after %d attempts: %w",
		ErrRetriesExhausted, o.maxAttempts, lastErr)
}

// createOnce performs a single attempt under the per-attempt deadline.
func (o *Orchestrator) createOnce(ctx context.Context, req gateway.CreateIntentRequest) (*gateway.CreateIntentResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()
	return o.gw.CreateIntent(attemptCtx, req)
}
