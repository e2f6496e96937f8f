package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/confirmation"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

// Router mounts the checkout HTTP surface:
//
//	POST /checkout/intents           mint a payment intent for a plan
//	POST /checkout/coupons/validate  advisory promotion-code check
//	GET  /checkout/confirm           post-redirect confirmation page data
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/checkout/intents", s.handleCreateIntent)
	r.Post("/checkout/coupons/validate", s.handleValidateCoupon)
	r.Get("/checkout/confirm", s.handleConfirm)
	return r
}

type createIntentPayload struct {
	PlanID        string `json:"planId"`
	BillingCycle  string `json:"billingCycle"`
	PromotionCode string `json:"promotionCode,omitempty"`
}

func (s *Service) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var payload createIntentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	plan, err := s.catalog.GetPlan(payload.PlanID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown plan")
		return
	}
	if plan.IsFree() {
		writeError(w, http.StatusUnprocessableEntity, "free plans do not require payment")
		return
	}

	cycle := catalog.BillingCycle(payload.BillingCycle)
	if !cycle.Valid() {
		cycle = catalog.DefaultCycle
	}

	handle, err := s.orch.RequestIntent(r.Context(), plan, cycle, payload.PromotionCode)
	if err != nil {
		s.writeGatewayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"intentId":                  handle.IntentID,
		"clientSecret":              handle.ClientSecret,
		"requestedAmountMinorUnits": handle.RequestedAmount,
		"finalAmountMinorUnits":     handle.FinalAmount,
	})
}

type validateCouponPayload struct {
	Code         string `json:"code"`
	PlanID       string `json:"planId"`
	BillingCycle string `json:"billingCycle"`
}

func (s *Service) handleValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var payload validateCouponPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	plan, err := s.catalog.GetPlan(payload.PlanID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown plan")
		return
	}

	attempt, err := s.validator.Validate(r.Context(), payload.Code, plan, catalog.BillingCycle(payload.BillingCycle))
	if err != nil {
		s.writeGatewayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"code":         attempt.Code,
		"status":       attempt.Status,
		"discountType": attempt.DiscountType,
		"discount":     attempt.DiscountValue,
		"message":      attempt.Message,
		"fullDiscount": attempt.IsFullDiscount(),
	})
}

func (s *Service) handleConfirm(w http.ResponseWriter, r *http.Request) {
	intentID := r.URL.Query().Get("payment_intent")

	result, err := s.resolver.Resolve(r.Context(), intentID)
	if errors.Is(err, confirmation.ErrMissingIntentID) {
		// Arriving here without an intent reference is a routing error, not a
		// page to render.
		http.Redirect(w, r, s.cfg.PlansRoute, http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "confirmation failed")
		return
	}

	body := map[string]any{
		"intentId":  result.IntentID,
		"status":    result.Status,
		"rawStatus": result.RawStatus,
		"message":   result.Message,
	}
	if result.Succeeded() {
		body["amountCapturedMinorUnits"] = result.AmountCaptured
		body["paymentMethod"] = result.PaymentMethod
		body["nextRoute"] = s.cfg.SuccessRoute
		if result.AppliedCouponCode != "" {
			body["appliedCouponCode"] = result.AppliedCouponCode
			body["discountPercentage"] = result.DiscountPercentage
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// writeGatewayError translates the gateway error taxonomy to HTTP statuses.
func (s *Service) writeGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *gateway.Error
	if !errors.As(err, &ge) {
		s.log.ErrorContext(r.Context(), "checkout request failed", slog.Any("error", err))
		writeError(w, http.StatusBadGateway, "payment service unavailable")
		return
	}

	switch ge.Class {
	case gateway.ClassValidation:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"kind":    ge.Kind,
			"message": ge.Message,
		})
	case gateway.ClassRateLimit:
		writeError(w, http.StatusTooManyRequests, "too many attempts, wait and retry")
	default:
		writeError(w, http.StatusBadGateway, "payment service unavailable")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
