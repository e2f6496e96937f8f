package gateway

import (
	"errors"
	"sync"

	"github.com/dmitrymomot/checkoutkit/pkg/config"
)

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// Default returns the process-wide gateway client, initializing it from the
// environment on first use. Initialization runs at most once; a failure is
// cached and returned on every subsequent call rather than re-attempted, so a
// missing configuration surfaces as one clear error instead of repeated noise.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		var cfg Config
		if err := config.Load(&cfg); err != nil {
			defaultErr = errors.Join(ErrNotConfigured, err)
			return
		}
		defaultClient, defaultErr = New(cfg)
		if defaultErr != nil {
			defaultErr = errors.Join(ErrNotConfigured, defaultErr)
		}
	})
	return defaultClient, defaultErr
}
