package coupon

import "github.com/dmitrymomot/checkoutkit/pkg/gateway"

// Status tracks the lifecycle of a single promotion-code attempt.
type Status string

const (
	StatusUnsubmitted Status = "unsubmitted"
	StatusValidating  Status = "validating"
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
)

// FullDiscountMessage is the distinguished message attached to a 100%-off
// attempt so callers can branch to the zero-amount intent path.
const FullDiscountMessage = "This code covers the full price"

// Attempt is the outcome of validating one promotion code. A new attempt is
// created whenever the user edits the code field; at most one attempt is
// current per checkout session, and stale attempts must never be applied to a
// newer payment intent.
type Attempt struct {
	Code          string
	Status        Status
	DiscountType  gateway.DiscountType
	DiscountValue int64
	Message       string
}

// IsValid reports whether the code was accepted by the validation endpoint.
// The create-intent call still checks the code independently.
func (a Attempt) IsValid() bool {
	return a.Status == StatusValid
}

// IsFullDiscount reports whether the attempt covers 100% of the price, which
// yields a zero-amount payment intent.
func (a Attempt) IsFullDiscount() bool {
	return a.Status == StatusValid &&
		a.DiscountType == gateway.DiscountPercentage &&
		a.DiscountValue >= 100
}
