package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// NewJWTConfig reads JWT_SECRET (required), JWT_ACCESS_TTL and JWT_REFRESH_TTL.
func NewJWTConfig() (*JWTConfig, error) {
	var cfg JWTConfig
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.AccessTTL < time.Minute {
		return fmt.Errorf("JWT_ACCESS_TTL must be at least 1m, got: %s", c.AccessTTL)
	}
	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("JWT_REFRESH_TTL (%s) must be longer than JWT_ACCESS_TTL (%s)", c.RefreshTTL, c.AccessTTL)
	}
	return nil
}
