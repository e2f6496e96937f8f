package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/config"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/httpserver"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	checkoutsvc "github.com/dmitrymomot/checkoutkit/svc/checkout"
)

type appConfig struct {
	PlansFile string `env:"CHECKOUT_PLANS_FILE,required"`
}

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithService("checkoutd"))
	slog.SetDefault(log)

	var appCfg appConfig
	config.MustLoad(&appCfg)
	var svcCfg checkoutsvc.Config
	config.MustLoad(&svcCfg)
	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)

	gw, err := gateway.Default()
	if err != nil {
		log.Error("payment gateway is not configured", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	svc, err := checkoutsvc.New(ctx, svcCfg, catalog.NewFileSource(appCfg.PlansFile), gw, log)
	if err != nil {
		log.Error("failed to build checkout service", slog.Any("error", err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.Healthcheck())
	r.Mount("/", svc.Router())

	srv := httpserver.New(srvCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
