package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all munch configuration.
type Config struct {
	// Restaurant API
	API APIConfig `yaml:"api"`

	// Query defaults
	Search SearchConfig `yaml:"search"`

	// Best-effort location detection
	Geo GeoConfig `yaml:"geo"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Persisted client state (the API key)
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the restaurant API collaborator.
type APIConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// Timeout is a per-request deadline; "0s" means none.
	Timeout string `yaml:"timeout" validate:"omitempty,duration"`
}

// SearchConfig configures query defaults.
type SearchConfig struct {
	// DefaultCity is used for the near-you and recommended requests when the
	// location carries no city. It is never written back into the location.
	DefaultCity string `yaml:"default_city" validate:"required"`
}

// GeoConfig configures the one-shot city detection.
type GeoConfig struct {
	Enabled bool `yaml:"enabled"`
	// Source is "ip" (IP geolocation lookup), "static" (Latitude/Longitude) or "off".
	Source       string  `yaml:"source" validate:"oneof=ip static off"`
	IPLookupURL  string  `yaml:"ip_lookup_url" validate:"omitempty,url"`
	Latitude     float64 `yaml:"latitude" validate:"latitude"`
	Longitude    float64 `yaml:"longitude" validate:"longitude"`
	NominatimURL string  `yaml:"nominatim_url" validate:"required,url"`
	UserAgent    string  `yaml:"user_agent" validate:"required"`
	Timeout      string  `yaml:"timeout" validate:"omitempty,duration"`
	// MaximumAge is how long a previously sensed position may be reused.
	MaximumAge string `yaml:"maximum_age" validate:"omitempty,duration"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Theme string `yaml:"theme" validate:"oneof=auto light dark"`
	// ClearQueryOnRestore drops the query of a location passed at startup.
	ClearQueryOnRestore bool `yaml:"clear_query_on_restore"`
}

// StoreConfig configures the key store.
type StoreConfig struct {
	// Path of the SQLite file; relative paths resolve against the config dir.
	Path string `yaml:"path" validate:"required"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "0s",
		},
		Search: SearchConfig{
			DefaultCity: "San Francisco",
		},
		Geo: GeoConfig{
			Enabled:      true,
			Source:       "ip",
			IPLookupURL:  "http://ip-api.com/json",
			NominatimURL: "https://nominatim.openstreetmap.org",
			UserAgent:    "munch/1.0 (terminal restaurant finder)",
			Timeout:      "10s",
			MaximumAge:   "60s",
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Store: StoreConfig{
			Path: "munch.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the directory where config, key store and logs live.
// MUNCH_HOME wins; otherwise ~/.munch.
func Dir() (string, error) {
	if dir := os.Getenv("MUNCH_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".munch"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// A .env file in the working directory is loaded first so its variables take
// part in the environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("MUNCH_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if city := os.Getenv("MUNCH_DEFAULT_CITY"); city != "" {
		c.Search.DefaultCity = city
	}
	if theme := os.Getenv("MUNCH_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if src := os.Getenv("MUNCH_GEO_SOURCE"); src != "" {
		c.Geo.Source = src
		if src == "off" {
			c.Geo.Enabled = false
		}
	}
	if os.Getenv("MUNCH_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// EnvAPIKey returns the key supplied through the environment, if any. It only
// seeds an empty key store; the store remains the source read per request.
func EnvAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetAPITimeout returns the per-request API timeout; zero means no deadline.
func (c *Config) GetAPITimeout() time.Duration {
	return parseDuration(c.API.Timeout, 0)
}

// GetGeoTimeout returns the timeout for position and geocoding calls.
func (c *Config) GetGeoTimeout() time.Duration {
	return parseDuration(c.Geo.Timeout, 10*time.Second)
}

// GetGeoMaximumAge returns how long a sensed position may be reused.
func (c *Config) GetGeoMaximumAge() time.Duration {
	return parseDuration(c.Geo.MaximumAge, 60*time.Second)
}

// GeoActive reports whether location detection should run at all.
func (c *Config) GeoActive() bool {
	return c.Geo.Enabled && c.Geo.Source != "off"
}

// StorePath resolves the key store path against the config dir.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	dir, err := Dir()
	if err != nil {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// LogsDir returns the directory for category log files.
func (c *Config) LogsDir() string {
	dir, err := Dir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
