package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type inMemSource struct {
	plans map[string]Plan
}

// NewInMemSource returns an in-memory Source with a deep copy of the given plans.
// Panics if no plans are provided so the catalog always has at least one plan.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) < 1 {
		panic("catalog: at least one plan is required")
	}

	plansCopy := make(map[string]Plan, len(plans))
	for _, plan := range plans {
		plansCopy[plan.ID] = plan.clone()
	}

	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all plans so callers cannot mutate the source's state.
func (s *inMemSource) Load(ctx context.Context) (map[string]Plan, error) {
	plansCopy := make(map[string]Plan, len(s.plans))
	for id, plan := range s.plans {
		plansCopy[id] = plan.clone()
	}
	return plansCopy, nil
}

type fileSource struct {
	path string
}

// NewFileSource returns a Source that reads plan definitions from a YAML file.
//
// Expected format:
//
//	plans:
//	  - id: pro
//	    name: Pro
//	    price_monthly: {amount: 900, currency: USD}
//	    price_yearly: {amount: 9000, currency: USD}
func NewFileSource(path string) Source {
	if path == "" {
		panic("catalog: file path is required")
	}
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) (map[string]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		if _, exists := plans[plan.ID]; exists {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan ID %s in %s", plan.ID, s.path))
		}
		plans[plan.ID] = plan
	}
	return plans, nil
}
