// Package catalog provides read-only access to subscription plan definitions
// with per-cycle pricing in minor currency units.
//
// Plans are loaded once from a Source (in-memory or YAML file), validated, and
// cached for the life of the process. The catalog is a leaf dependency: it
// supplies the amounts the checkout flow requests before any discount is
// applied, and never performs network calls.
//
// # Usage
//
//	cat, err := catalog.New(ctx, catalog.NewFileSource("plans.yml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plan, err := cat.GetPlan("pro")
//	if errors.Is(err, catalog.ErrPlanNotFound) {
//		// unknown plan id
//	}
//	price := plan.Price(catalog.CycleYearly)
package catalog
