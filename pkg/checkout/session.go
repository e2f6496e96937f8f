package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/coupon"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/intent"
	"github.com/dmitrymomot/checkoutkit/pkg/statemachine"
)

// IntentRequester is the slice of the intent orchestrator the session needs.
type IntentRequester interface {
	RequestIntent(ctx context.Context, plan catalog.Plan, cycle catalog.BillingCycle, couponCode string) (intent.Handle, error)
}

// CouponValidator is the slice of the coupon validator the session needs.
type CouponValidator interface {
	Validate(ctx context.Context, code string, plan catalog.Plan, cycle catalog.BillingCycle) (coupon.Attempt, error)
}

// Callbacks are the session's only outward-facing side effects.
type Callbacks struct {
	// OnFreePlanActivated fires when a free plan is chosen, bypassing payment.
	OnFreePlanActivated func(planID string)
	// OnPaymentSucceeded fires after gateway confirmation with the settled
	// intent ID; the application navigates to its confirmation page.
	OnPaymentSucceeded func(intentID string)
}

// Session is the checkout aggregate root. It owns the selected plan, billing
// cycle, current coupon attempt, and the single authoritative payment intent
// handle, and drives the orchestrator and validator through an explicit state
// machine.
//
// The session lives in memory for one checkout attempt. It is driven by one
// logical flow; the mutex only makes timer- and goroutine-delivered results
// safe to apply. Results of superseded gateway calls are discarded by
// sequence number, never applied.
type Session struct {
	mu sync.Mutex

	cat       catalog.Catalog
	orch      IntentRequester
	validator CouponValidator
	sm        statemachine.Machine
	cb        Callbacks
	log       *slog.Logger
	debounce  time.Duration

	plan      catalog.Plan
	hasPlan   bool
	cycle     catalog.BillingCycle
	attempt   coupon.Attempt
	handle    intent.Handle
	modalOpen bool
	busy      bool

	// seq identifies the most recently issued intent request; results carrying
	// an older value are stale and must not touch the handle.
	seq uint64
	// couponSeq invalidates in-flight validations when the code is edited.
	couponSeq uint64

	debounceTimer *time.Timer

	surface ErrorSurface
	lastErr error
}

// Option configures a Session during construction.
type Option func(*Session)

// WithDebounce sets the settle window for billing-cycle toggles. Exactly one
// intent request is issued per window, reflecting the latest value.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithCallbacks registers the session's outward side effects.
func WithCallbacks(cb Callbacks) Option {
	return func(s *Session) { s.cb = cb }
}

// WithLogger sets a structured logger for session diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates a checkout session in the idle state.
// Panics on nil dependencies to fail fast during initialization.
func NewSession(cat catalog.Catalog, orch IntentRequester, validator CouponValidator, opts ...Option) *Session {
	if cat == nil {
		panic("checkout: catalog is required")
	}
	if orch == nil {
		panic("checkout: intent orchestrator is required")
	}
	if validator == nil {
		panic("checkout: coupon validator is required")
	}

	s := &Session{
		cat:       cat,
		orch:      orch,
		validator: validator,
		sm:        newSessionMachine(),
		cycle:     catalog.DefaultCycle,
		debounce:  300 * time.Millisecond,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectPlan chooses a plan and starts the payment path for paid plans.
//
// A free plan short-circuits: no intent is requested, no payment surface
// opens, the free-plan callback fires and the session returns to idle. A paid
// plan moves to plan-selected and issues exactly one intent request before
// any payment surface is shown.
func (s *Session) SelectPlan(ctx context.Context, planID string) error {
	s.mu.Lock()

	if s.busy {
		s.mu.Unlock()
		return ErrSessionBusy
	}

	plan, err := s.cat.GetPlan(planID)
	if err != nil {
		s.fail(SurfacePlan, err)
		s.mu.Unlock()
		return err
	}

	if plan.IsFree() {
		cur := s.sm.Current()
		if cur != StateIdle && cur != StatePlanSelected {
			s.mu.Unlock()
			return ErrIllegalSubmit
		}
		s.resetLocked()
		cb := s.cb.OnFreePlanActivated
		s.mu.Unlock()
		if cb != nil {
			cb(plan.ID)
		}
		return nil
	}

	if err := s.sm.Fire(ctx, eventSelectPlan, nil); err != nil {
		s.mu.Unlock()
		return err
	}

	s.plan = plan
	s.hasPlan = true
	// A new plan invalidates any prior coupon attempt.
	s.couponSeq++
	s.attempt = coupon.Attempt{Status: coupon.StatusUnsubmitted}
	s.clearError()

	err = s.requestIntentLocked(ctx)
	s.mu.Unlock()
	return err
}

// ChangeBillingCycle switches between monthly and yearly pricing.
//
// While a paid plan is selected, the re-request is debounced: rapid toggling
// within one settle window produces a single intent request reflecting the
// final value. In-flight requests are superseded immediately so a stale
// response can never overwrite the new cycle's handle.
func (s *Session) ChangeBillingCycle(ctx context.Context, cycle catalog.BillingCycle) error {
	if !cycle.Valid() {
		return ErrInvalidCycle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cycle == s.cycle {
		return nil
	}
	s.cycle = cycle

	if !s.hasPlan {
		return nil
	}

	// No edge from submitting: the new cycle applies on the next request.
	if err := s.sm.Fire(ctx, eventRequestIntent, nil); err != nil {
		return nil
	}

	// Supersede whatever is in flight right away.
	s.seq++
	s.busy = true
	s.handle = intent.Handle{Status: intent.HandleRequesting}

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.debounce == 0 {
		s.issueLocked(context.WithoutCancel(ctx))
		return nil
	}

	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sm.Current() != StateIntentPending {
			return
		}
		s.issueLocked(context.WithoutCancel(ctx))
	})
	return nil
}

// EditCouponCode records a new user-entered code, invalidating any prior
// validation result. Stale attempts are never applied to a newer intent.
func (s *Session) EditCouponCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.couponSeq++
	s.attempt = coupon.Attempt{
		Code:   coupon.Normalize(code),
		Status: coupon.StatusUnsubmitted,
	}
	if s.surface == SurfaceCoupon {
		s.clearError()
	}
}

// ApplyCoupon validates the current code and, on success, immediately
// re-requests the payment intent with the discount applied, superseding any
// in-flight or existing intent.
//
// A gateway-rejected code is terminal for the attempt: the code field is
// cleared and the rejection message surfaced. A transport failure surfaces a
// retryable coupon error but is never auto-retried.
func (s *Session) ApplyCoupon(ctx context.Context, code string) error {
	s.mu.Lock()

	// A valid coupon supersedes an in-flight intent request, so a pending
	// intent does not block here; only an active validation or submission does.
	if s.attempt.Status == coupon.StatusValidating || s.sm.Current() == StateSubmitting {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	if !s.hasPlan || s.plan.IsFree() {
		s.fail(SurfaceCoupon, ErrCouponNotAllowed)
		s.mu.Unlock()
		return ErrCouponNotAllowed
	}

	s.couponSeq++
	mySeq := s.couponSeq
	normalized := coupon.Normalize(code)
	s.attempt = coupon.Attempt{Code: normalized, Status: coupon.StatusValidating}
	s.busy = true
	plan, cycle := s.plan, s.cycle
	s.mu.Unlock()

	attempt, err := s.validator.Validate(ctx, code, plan, cycle)

	s.mu.Lock()
	s.busy = false
	if mySeq != s.couponSeq {
		// The user edited the code while we were validating; this result no
		// longer describes the current attempt.
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		s.attempt = coupon.Attempt{
			Code:    normalized,
			Status:  coupon.StatusUnsubmitted,
			Message: "Could not check the code, please try again",
		}
		s.fail(SurfaceCoupon, err)
		s.mu.Unlock()
		return err
	}

	if !attempt.IsValid() {
		// A rejected code is never silently retried: clear the field.
		attempt.Code = ""
		s.attempt = attempt
		s.fail(SurfaceCoupon, errors.New(attempt.Message))
		s.mu.Unlock()
		return nil
	}

	s.attempt = attempt
	s.clearError()

	reqErr := s.requestIntentLocked(ctx)
	s.mu.Unlock()
	return reqErr
}

// SubmitPayment marks the user handing payment details to the external
// collection step. Legal only while the intent is ready.
func (s *Session) SubmitPayment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrSessionBusy
	}
	if s.handle.Status != intent.HandleReady {
		return ErrIntentNotReady
	}
	if err := s.sm.Fire(ctx, eventSubmit, nil); err != nil {
		if statemachine.IsNoTransition(err) {
			return ErrIllegalSubmit
		}
		return err
	}
	s.busy = true
	return nil
}

// CompletePayment applies the gateway's confirmation callback. A nil
// paymentErr confirms the charge: the session resets, the modal closes, and
// the success callback fires with the settled intent ID. A non-nil paymentErr
// keeps the modal open in the failed state so the user may retry.
func (s *Session) CompletePayment(ctx context.Context, paymentErr error) error {
	s.mu.Lock()

	if s.sm.Current() != StateSubmitting {
		s.mu.Unlock()
		return ErrIllegalSubmit
	}
	s.busy = false

	if paymentErr != nil {
		if err := s.sm.Fire(ctx, eventRejected, nil); err != nil {
			s.mu.Unlock()
			return err
		}
		s.fail(SurfacePayment, paymentErr)
		s.mu.Unlock()
		return nil
	}

	if err := s.sm.Fire(ctx, eventConfirmed, nil); err != nil {
		s.mu.Unlock()
		return err
	}

	intentID := s.handle.IntentID
	s.resetLocked()
	cb := s.cb.OnPaymentSucceeded
	s.mu.Unlock()

	if cb != nil {
		cb(intentID)
	}
	return nil
}

// RetryPayment re-enters the ready state after a rejected payment, reusing
// the same intent handle. Amount changes go through cycle/coupon methods,
// which request a fresh intent instead.
func (s *Session) RetryPayment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle.Status != intent.HandleReady {
		return ErrIntentNotReady
	}
	if err := s.sm.Fire(ctx, eventRetry, nil); err != nil {
		return err
	}
	s.clearError()
	return nil
}

// Close abandons the payment attempt, keeping the selected plan and cycle.
// Any late-arriving gateway response is ignored from this point on.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.seq++
	s.busy = false
	s.modalOpen = false
	s.handle = intent.Handle{Status: intent.HandleNone}

	// No edge from idle/plan-selected; closing there is a no-op.
	_ = s.sm.Fire(ctx, eventClose, nil)
}

// Reset returns the session to its initial idle state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	State        string
	Plan         catalog.Plan
	HasPlan      bool
	Cycle        catalog.BillingCycle
	Coupon       coupon.Attempt
	Intent       intent.Handle
	ModalOpen    bool
	Busy         bool
	ErrorSurface ErrorSurface
	ErrorMessage string
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:        s.sm.Current().Name(),
		Plan:         s.plan,
		HasPlan:      s.hasPlan,
		Cycle:        s.cycle,
		Coupon:       s.attempt,
		Intent:       s.handle,
		ModalOpen:    s.modalOpen,
		Busy:         s.busy,
		ErrorSurface: s.surface,
	}
	if s.lastErr != nil {
		snap.ErrorMessage = s.lastErr.Error()
	}
	return snap
}

// requestIntentLocked fires the pending transition and issues a request
// immediately (no debounce). Caller holds the lock.
func (s *Session) requestIntentLocked(ctx context.Context) error {
	if err := s.sm.Fire(ctx, eventRequestIntent, nil); err != nil {
		return err
	}
	// A pending cycle-toggle timer would issue a second request for the same
	// values; this request supersedes it.
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.busy = true
	s.handle = intent.Handle{Status: intent.HandleRequesting}
	s.issueLocked(context.WithoutCancel(ctx))
	return nil
}

// issueLocked starts one orchestrator call tagged with a fresh sequence
// number. Caller holds the lock.
func (s *Session) issueLocked(ctx context.Context) {
	s.seq++
	mySeq := s.seq

	plan, cycle := s.plan, s.cycle
	var code string
	if s.attempt.IsValid() {
		code = s.attempt.Code
	}

	go func() {
		h, err := s.orch.RequestIntent(ctx, plan, cycle, code)
		s.applyIntentResult(ctx, mySeq, h, err)
	}()
}

// applyIntentResult applies an orchestrator result unless it was superseded.
func (s *Session) applyIntentResult(ctx context.Context, seq uint64, h intent.Handle, err error) {
	s.mu.Lock()

	if seq != s.seq {
		s.log.DebugContext(ctx, "discarded stale intent response",
			slog.Uint64("seq", seq),
			slog.Uint64("current", s.seq))
		s.mu.Unlock()
		return
	}
	s.busy = false

	if err != nil {
		if gateway.IsPromotionCodeRejected(err) {
			// The validator said yes but the authoritative check said no.
			// Clear the coupon and warn distinctly; the validator is advisory.
			s.couponSeq++
			s.attempt = coupon.Attempt{
				Status:  coupon.StatusInvalid,
				Message: "The code was declined when preparing payment",
			}
			s.fail(SurfaceCoupon, err)
		} else {
			s.fail(SurfacePlan, err)
		}
		s.handle = intent.Handle{Status: intent.HandleError}
		_ = s.sm.Fire(ctx, eventIntentFailed, nil)
		s.mu.Unlock()
		return
	}

	s.handle = h
	s.modalOpen = true
	s.clearError()
	_ = s.sm.Fire(ctx, eventIntentReady, nil)
	s.mu.Unlock()
}

// fail records a user-facing error state. Caller holds the lock.
func (s *Session) fail(surface ErrorSurface, err error) {
	s.surface = surface
	s.lastErr = err
	s.log.Warn("checkout error",
		slog.String("surface", string(surface)),
		slog.Any("error", err))
}

// clearError resets the error surface. Caller holds the lock.
func (s *Session) clearError() {
	s.surface = SurfaceNone
	s.lastErr = nil
}

// resetLocked clears all session state. Caller holds the lock.
func (s *Session) resetLocked() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.seq++
	s.couponSeq++
	s.plan = catalog.Plan{}
	s.hasPlan = false
	s.cycle = catalog.DefaultCycle
	s.attempt = coupon.Attempt{Status: coupon.StatusUnsubmitted}
	s.handle = intent.Handle{Status: intent.HandleNone}
	s.modalOpen = false
	s.busy = false
	s.clearError()
	s.sm.Reset()
}
