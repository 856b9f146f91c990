package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/nextstep/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per Window
	Window time.Duration // refill period for Limit tokens
	Burst  int           // bucket capacity; defaults to Limit
}

type envConfig struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int           `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"1000"`
	DefaultWindow   time.Duration `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	Whitelist       []string      `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string      `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`
}

// LoadConfig reads the RATE_LIMIT_* environment variables.
func LoadConfig() (*Config, error) {
	var e envConfig
	if err := config.ParseEnv(&e); err != nil {
		return nil, err
	}
	if !e.Enabled {
		return &Config{Enabled: false}, nil
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    e.DefaultLimit,
		DefaultWindow:   e.DefaultWindow,
		CleanupInterval: e.CleanupInterval,
		Whitelist:       ipSet(e.Whitelist),
		Blacklist:       ipSet(e.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}, nil
}

// DefaultEndpointConfigs returns the per-endpoint limits for the NextStep API.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential endpoints
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/auth/refresh", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 5},

		// Postings, applications and ratings
		{Path: "/api/jobs", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/jobs/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 10},
		{Path: "/api/ratings", Method: "POST", Limit: 30, Window: time.Hour, Burst: 10},

		// Everything else that writes
		{Path: "/api/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
