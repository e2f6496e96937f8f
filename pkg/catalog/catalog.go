package catalog

import "context"

// Catalog provides read-only access to the configured subscription plans.
// Implementations load plans once and never mutate them afterwards.
type Catalog interface {
	// GetPlan returns the plan with the given ID or ErrPlanNotFound.
	GetPlan(planID string) (Plan, error)

	// Plans returns all configured plans keyed by ID.
	Plans() map[string]Plan
}

// Source defines how plan definitions are loaded into a catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// New builds a catalog from the given source.
// Loaded plans are validated once; a misconfigured catalog fails here rather
// than at checkout time.
func New(ctx context.Context, src Source) (Catalog, error) {
	if src == nil {
		panic("catalog: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	return &catalog{plans: plans}, nil
}

type catalog struct {
	plans map[string]Plan
}

func (c *catalog) GetPlan(planID string) (Plan, error) {
	plan, exists := c.plans[planID]
	if !exists {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

func (c *catalog) Plans() map[string]Plan {
	out := make(map[string]Plan, len(c.plans))
	for id, plan := range c.plans {
		out[id] = plan.clone()
	}
	return out
}
