package httpserver

import "errors"

var (
	// ErrStart wraps failures to bind or serve.
	ErrStart = errors.New("failed to start http server")

	// ErrShutdown wraps failures during graceful shutdown.
	ErrShutdown = errors.New("failed to shutdown http server")
)
