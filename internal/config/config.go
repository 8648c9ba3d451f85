// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Default matching weights. These match the stock algorithm parameters and
// apply when the configuration source has no stored values.
const (
	defaultBloodTypeWeight   = 35
	defaultHLAWeight         = 30
	defaultAgeWeight         = 10
	defaultWaitingTimeWeight = 15
	defaultUrgencyWeight     = 10
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory match-run queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of match-run workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the in-flight run guard.
	DedupeSize int `koanf:"dedupe_size"`

	// Matching weights. All must be positive; their sum is irrelevant since
	// each scoring stage normalizes the weights it uses.
	BloodTypeWeight   float64 `koanf:"blood_type_weight"`
	HLAWeight         float64 `koanf:"hla_weight"`
	AgeWeight         float64 `koanf:"age_weight"`
	WaitingTimeWeight float64 `koanf:"waiting_time_weight"`
	UrgencyWeight     float64 `koanf:"urgency_weight"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8090",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        50_000,
		BloodTypeWeight:   defaultBloodTypeWeight,
		HLAWeight:         defaultHLAWeight,
		AgeWeight:         defaultAgeWeight,
		WaitingTimeWeight: defaultWaitingTimeWeight,
		UrgencyWeight:     defaultUrgencyWeight,
	}
}
