package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// BillingCycle represents the recurrence period selected for a plan.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid reports whether the cycle is one of the two supported values.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// DefaultCycle is applied when the user has not picked a cycle yet.
const DefaultCycle = CycleMonthly

// Feature represents a plan-specific capability flag.
type Feature string

// Money represents a monetary amount in the smallest currency unit.
// For example, $9.00 USD is Amount: 900, Currency: "USD".
type Money struct {
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// Plan describes a subscription plan and its per-cycle pricing.
// Plans are immutable after the catalog loads them.
type Plan struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	PriceMonthly Money     `yaml:"price_monthly"`
	PriceYearly  Money     `yaml:"price_yearly"`
	Features     []Feature `yaml:"features"`
	Public       bool      `yaml:"public"` // available for self-service signup
}

// Price returns the plan's price for the given billing cycle.
func (p Plan) Price(cycle BillingCycle) Money {
	if cycle == CycleYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}

// IsFree reports whether the plan bypasses the payment path entirely.
func (p Plan) IsFree() bool {
	return p.PriceMonthly.Amount == 0 && p.PriceYearly.Amount == 0
}

// HasFeature checks if a feature flag is enabled on the plan.
func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

func (p Plan) clone() Plan {
	p.Features = slices.Clone(p.Features)
	return p
}

// validatePlans ensures plan configurations are internally consistent.
// Catches configuration errors at load time so checkout never sees a broken plan.
func validatePlans(plans map[string]Plan) error {
	if len(plans) == 0 {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("no plans configured"))
	}

	for planID, plan := range plans {
		if plan.ID != planID {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan ID mismatch: map key %s != plan.ID %s", planID, plan.ID))
		}
		if plan.PriceMonthly.Amount < 0 || plan.PriceYearly.Amount < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has a negative price", planID))
		}
		// A plan priced for one cycle only would silently charge zero on the
		// other; reject it instead.
		if (plan.PriceMonthly.Amount == 0) != (plan.PriceYearly.Amount == 0) {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s must price both cycles or neither", planID))
		}
	}
	return nil
}
