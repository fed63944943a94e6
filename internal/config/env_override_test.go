package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("MUNCH_API_URL replaces base url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MUNCH_API_URL", "https://api.example.com")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	})

	t.Run("MUNCH_DEFAULT_CITY and MUNCH_THEME", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MUNCH_DEFAULT_CITY", "Tokyo")
		t.Setenv("MUNCH_THEME", "dark")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "Tokyo", cfg.Search.DefaultCity)
		assert.Equal(t, "dark", cfg.UI.Theme)
	})

	t.Run("MUNCH_GEO_SOURCE=off disables detection", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MUNCH_GEO_SOURCE", "off")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.GeoActive())
	})

	t.Run("empty values leave config untouched", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("MUNCH_DEBUG=1 enables debug logging", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MUNCH_DEBUG", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("OPENAI_API_KEY is exposed for seeding", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-env")
		assert.Equal(t, "sk-env", EnvAPIKey())
	})
}
