package coupon

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

// GatewayClient is the slice of the payment gateway the validator needs.
type GatewayClient interface {
	ValidateCoupon(ctx context.Context, req gateway.ValidateCouponRequest) (*gateway.ValidateCouponResponse, error)
}

// Validator checks promotion codes against the remote gateway.
// It holds no session state; the checkout session owns the current attempt.
type Validator struct {
	gw  GatewayClient
	log *slog.Logger
}

// NewValidator creates a coupon validator. Panics on a nil gateway client to
// fail fast during initialization.
func NewValidator(gw GatewayClient, log *slog.Logger) *Validator {
	if gw == nil {
		panic("coupon: gateway client is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Validator{gw: gw, log: log}
}

// Normalize canonicalizes a user-entered promotion code before it is sent
// anywhere: surrounding whitespace stripped, letters uppercased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a promotion code for the given plan and cycle.
//
// A rejected code yields an Invalid attempt and a nil error: the rejection is
// terminal for that attempt and the caller must clear the code field rather
// than retry it. A network failure yields ErrValidationUnavailable so the UI
// can offer a manual "try again"; it is never auto-retried here, unlike intent
// creation which retries transport failures itself.
func (v *Validator) Validate(ctx context.Context, code string, plan catalog.Plan, cycle catalog.BillingCycle) (Attempt, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return Attempt{Status: StatusUnsubmitted}, ErrEmptyCode
	}
	if plan.ID == "" || plan.IsFree() {
		return Attempt{Code: normalized, Status: StatusUnsubmitted}, ErrNoPlanSelected
	}

	attempt := Attempt{Code: normalized, Status: StatusValidating}

	resp, err := v.gw.ValidateCoupon(ctx, gateway.ValidateCouponRequest{PromotionCode: normalized})
	if err != nil {
		var ge *gateway.Error
		if errors.As(err, &ge) && ge.Class == gateway.ClassValidation {
			// The gateway answered: the code is unusable. Terminal for this attempt.
			attempt.Status = StatusInvalid
			attempt.Message = ge.Message
			return attempt, nil
		}

		v.log.WarnContext(ctx, "coupon validation unreachable",
			slog.String("plan_id", plan.ID),
			slog.Any("error", err))
		return attempt, errors.Join(ErrValidationUnavailable, err)
	}

	if !resp.Valid || resp.Promotion == nil {
		attempt.Status = StatusInvalid
		attempt.Message = resp.Message
		if attempt.Message == "" {
			attempt.Message = "This code is not valid"
		}
		return attempt, nil
	}

	attempt.Status = StatusValid
	attempt.DiscountType = resp.Promotion.DiscountType
	attempt.DiscountValue = resp.Promotion.DiscountAmount
	attempt.Message = resp.Message

	if attempt.IsFullDiscount() {
		attempt.Message = FullDiscountMessage
	}

	return attempt, nil
}
