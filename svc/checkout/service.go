package checkout

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/confirmation"
	"github.com/dmitrymomot/checkoutkit/pkg/coupon"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/intent"
)

// Config holds the service's routing settings.
type Config struct {
	// PlansRoute is where a redirect without an intent reference is sent back to.
	PlansRoute string `env:"CHECKOUT_PLANS_ROUTE" envDefault:"/pricing"`
	// SuccessRoute is the downstream route after a confirmed payment.
	SuccessRoute string `env:"CHECKOUT_SUCCESS_ROUTE" envDefault:"/dashboard"`
}

// Service composes the checkout building blocks behind the HTTP surface:
// the plan catalog, the coupon validator, the intent orchestrator, and the
// post-redirect confirmation resolver.
type Service struct {
	cfg       Config
	catalog   catalog.Catalog
	validator *coupon.Validator
	orch      *intent.Orchestrator
	resolver  *confirmation.Resolver
	log       *slog.Logger
}

// New wires a checkout service from a catalog source and a gateway client.
func New(ctx context.Context, cfg Config, src catalog.Source, gw *gateway.Client, log *slog.Logger) (*Service, error) {
	if gw == nil {
		panic("checkout service: gateway client is required")
	}
	if log == nil {
		log = slog.Default()
	}

	cat, err := catalog.New(ctx, src)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		catalog:   cat,
		validator: coupon.NewValidator(gw, log),
		orch:      intent.NewOrchestrator(gw, intent.WithLogger(log)),
		resolver:  confirmation.NewResolver(gw, confirmation.WithLogger(log)),
		log:       log,
	}, nil
}

// Catalog exposes the loaded plan catalog.
func (s *Service) Catalog() catalog.Catalog { return s.catalog }
