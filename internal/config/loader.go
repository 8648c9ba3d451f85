package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LIFEBRIDGE_CONFIG is set
//  3. env (prefix LIFEBRIDGE_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx // reserved for remote configuration sources

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LIFEBRIDGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LIFEBRIDGE_ADDR, LIFEBRIDGE_HLA_WEIGHT, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("LIFEBRIDGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "lifebridge_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate fails fast on configuration the matching engine would reject
// anyway, so a bad deployment never serves a single request.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"blood_type_weight", c.BloodTypeWeight},
		{"hla_weight", c.HLAWeight},
		{"age_weight", c.AgeWeight},
		{"waiting_time_weight", c.WaitingTimeWeight},
		{"urgency_weight", c.UrgencyWeight},
	} {
		if w.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, w.name, w.value)
		}
	}
	return nil
}
