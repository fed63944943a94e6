package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MUNCH_API_URL", "MUNCH_DEFAULT_CITY", "MUNCH_THEME", "MUNCH_GEO_SOURCE", "MUNCH_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "San Francisco", cfg.Search.DefaultCity)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geo.NominatimURL)
	assert.Equal(t, time.Duration(0), cfg.GetAPITimeout())
	assert.Equal(t, 10*time.Second, cfg.GetGeoTimeout())
	assert.Equal(t, time.Minute, cfg.GetGeoMaximumAge())
	assert.True(t, cfg.GeoActive())
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.munch.test"
	cfg.API.Timeout = "15s"
	cfg.Geo.Source = "static"
	cfg.Geo.Latitude = 35.0116
	cfg.Geo.Longitude = 135.7681
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.munch.test", loaded.API.BaseURL)
	assert.Equal(t, 15*time.Second, loaded.GetAPITimeout())
	assert.Equal(t, "static", loaded.Geo.Source)
	assert.InDelta(t, 135.7681, loaded.Geo.Longitude, 1e-9)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  default_city: Chicago\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Chicago", cfg.Search.DefaultCity)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"bad url":      "api:\n  base_url: not a url\n",
		"bad duration": "api:\n  timeout: soon\n",
		"bad theme":    "ui:\n  theme: neon\n",
		"bad latitude": "geo:\n  latitude: 123\n",
		"bad yaml":     "api: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("MUNCH_HOME", home)

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(home, "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join(home, "munch.db"), cfg.StorePath())
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogsDir())

	cfg.Store.Path = "/var/lib/munch/keys.db"
	assert.Equal(t, "/var/lib/munch/keys.db", cfg.StorePath())
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Categories: map[string]bool{"geo": false}}
	assert.False(t, lc.IsCategoryEnabled("api"))

	lc.DebugMode = true
	lc.Format = "json"
	assert.True(t, lc.IsCategoryEnabled("api"))
	assert.False(t, lc.IsCategoryEnabled("geo"))
	assert.True(t, lc.Settings().JSONFormat)
}
