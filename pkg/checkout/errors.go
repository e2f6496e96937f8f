package checkout

import "errors"

var (
	ErrSessionBusy      = errors.New("checkout: a request is already in flight")
	ErrIntentNotReady   = errors.New("checkout: payment intent is not ready")
	ErrInvalidCycle     = errors.New("checkout: invalid billing cycle")
	ErrIllegalSubmit    = errors.New("checkout: payment cannot be submitted in this state")
	ErrCouponNotAllowed = errors.New("checkout: coupons require a paid plan")
)

// ErrorSurface is the small set of user-facing error states every internal
// failure collapses into. Nothing escapes the session unclassified.
type ErrorSurface string

const (
	SurfaceNone    ErrorSurface = ""
	SurfacePlan    ErrorSurface = "plan-error"
	SurfaceCoupon  ErrorSurface = "coupon-error"
	SurfacePayment ErrorSurface = "payment-error"
)
