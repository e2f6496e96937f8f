package gateway

// DiscountType distinguishes percentage from fixed-amount promotions.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CreateIntentRequest asks the gateway to mint a payment intent for a plan.
type CreateIntentRequest struct {
	PlanID         string `json:"planId"`
	BillingCycle   string `json:"billingCycle"`
	PromotionCode  string `json:"promotionCode,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// CreateIntentResponse carries the minted intent and its amounts.
// FinalAmount reflects any discount the gateway applied at creation time.
type CreateIntentResponse struct {
	IntentID        string `json:"intentId"`
	ClientSecret    string `json:"clientSecret"`
	RequestedAmount int64  `json:"requestedAmountMinorUnits"`
	FinalAmount     int64  `json:"finalAmountMinorUnits"`
}

// ValidateCouponRequest asks the gateway whether a promotion code is usable.
type ValidateCouponRequest struct {
	PromotionCode string `json:"promotionCode"`
}

// Promotion describes the discount attached to a valid promotion code.
type Promotion struct {
	DiscountType   DiscountType `json:"discountType"`
	DiscountAmount int64        `json:"discountAmount"`
}

// ValidateCouponResponse is the gateway's advisory answer. The create-intent
// call independently accepts or rejects the same code; this response is never
// authoritative on its own.
type ValidateCouponResponse struct {
	Valid     bool       `json:"valid"`
	Message   string     `json:"message"`
	Promotion *Promotion `json:"promotion,omitempty"`
}

// IntentStatus values reported by the gateway's status endpoint.
const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusApproved  = "approved"
	IntentStatusFailed    = "failed"
	IntentStatusCanceled  = "canceled"
)

// IntentStatusResponse is the settled state of a payment intent.
type IntentStatusResponse struct {
	Status         string            `json:"status"`
	AmountCaptured int64             `json:"amountCaptured"`
	PaymentMethod  string            `json:"paymentMethod,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// errorBody is the gateway's structured error envelope.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
