// Package httpserver is a thin wrapper around net/http adding environment
// driven configuration and graceful shutdown.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal
// arrives, then drains in-flight requests within the configured deadline:
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server exited", slog.Any("error", err))
//	}
package httpserver
