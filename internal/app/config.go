package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the catalog API configuration, loadable from environment
// variables (CATALOG_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (CATALOG_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Health      HealthConfig
	Graceful    GracefulConfig
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
	MaxAge           int      `default:"86400" usage:"Preflight cache lifetime in seconds" flag:"cors-max-age"`
}

// RateLimitConfig controls the per-client limiter. Max 0 disables it.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per client per window, 0 disables" flag:"ratelimit-max"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration" flag:"ratelimit-window"`
}

// HealthConfig controls background probe checks.
type HealthConfig struct {
	Interval      time.Duration `default:"10s" usage:"Interval between health checks" flag:"health-interval"`
	PingTimeout   time.Duration `default:"5s" usage:"Database ping timeout" flag:"health-ping-timeout"`
	MaxGoroutines int           `default:"10000" usage:"Liveness fails above this goroutine count" flag:"health-max-goroutines"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from the environment and config files, then
// applies platform defaults and validates the result.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CATALOG",
		Files:     []string{"config.yaml", "/etc/catalog/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.DatabaseURL == "":
		return errors.New("database URL is required: set CATALOG_DATABASE_URL or DATABASE_URL")
	case c.Addr == "":
		return errors.New("listen address must not be empty")
	case c.RateLimit.Max < 0:
		return errors.Errorf("rate limit max must not be negative, got %d", c.RateLimit.Max)
	case c.RateLimit.Max > 0 && c.RateLimit.Window <= 0:
		return errors.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	case c.Health.Interval <= 0:
		return errors.Errorf("health interval must be positive, got %s", c.Health.Interval)
	case c.Graceful.ShutdownTimeout <= 0:
		return errors.Errorf("shutdown timeout must be positive, got %s", c.Graceful.ShutdownTimeout)
	case c.Graceful.ReadinessDelay < 0:
		return errors.Errorf("readiness delay must not be negative, got %s", c.Graceful.ReadinessDelay)
	}
	return nil
}

// applyPlatformDefaults maps DATABASE_URL and PORT, as set by hosting
// platforms, onto the CATALOG_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
