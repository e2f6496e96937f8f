package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/config"
)

type basicConfig struct {
	GatewayURL string `env:"TEST_GATEWAY_URL" envDefault:"https://gateway.example.com"`
	MaxRetries int    `env:"TEST_MAX_RETRIES" envDefault:"3"`
}

type requiredConfig struct {
	APIKey string `env:"TEST_REQUIRED_API_KEY,required"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE" envDefault:"initial"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied when env unset", func(t *testing.T) {
		var cfg basicConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "https://gateway.example.com", cfg.GatewayURL)
		assert.Equal(t, 3, cfg.MaxRetries)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		var cfg *basicConfig
		err := config.Load(cfg)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("same type is parsed once and cached", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, "initial", first.Value)

		// Changing the environment after the first load must not change the
		// cached result.
		t.Setenv("TEST_CACHED_VALUE", "changed")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "initial", second.Value)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		var cfg basicConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, 3, cfg.MaxRetries)
	})

	t.Run("panics on missing required variable", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})
}
