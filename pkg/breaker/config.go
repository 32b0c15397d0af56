package breaker

import "time"

// Config holds the circuit breaker parameters. Zero fields are normalized to
// the documented defaults by New.
type Config struct {
	// TripThreshold is the failure count inside the monitoring window at
	// which the trip condition starts being evaluated.
	TripThreshold int `env:"BREAKER_TRIP_THRESHOLD" envDefault:"5"`

	// TripFailureRate is the failure rate the window must exceed (strictly)
	// for the circuit to open. Both TripThreshold and TripFailureRate must be
	// met.
	TripFailureRate float64 `env:"BREAKER_TRIP_FAILURE_RATE" envDefault:"0.5"`

	// OpenTimeout is how long an open circuit rejects calls before the next
	// IsOpen check lets a probe through.
	OpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"60s"`

	// SuccessThreshold is the number of consecutive half-open successes
	// required to close the circuit.
	SuccessThreshold int `env:"BREAKER_SUCCESS_THRESHOLD" envDefault:"2"`

	// Window is the rolling span over which failures and successes are
	// tallied before both counters reset.
	Window time.Duration `env:"BREAKER_WINDOW" envDefault:"5m"`

	// DefaultRegion substitutes for an empty region argument.
	DefaultRegion string `env:"BREAKER_DEFAULT_REGION" envDefault:"US"`

	// FallbackCacheSize bounds the in-memory cache used when the durable
	// store is unreachable on reads.
	FallbackCacheSize int `env:"BREAKER_FALLBACK_CACHE_SIZE" envDefault:"1024"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TripThreshold:     5,
		TripFailureRate:   0.5,
		OpenTimeout:       60 * time.Second,
		SuccessThreshold:  2,
		Window:            5 * time.Minute,
		DefaultRegion:     "US",
		FallbackCacheSize: 1024,
	}
}

// normalize fills zero fields with defaults so a partially populated Config
// stays usable.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.TripThreshold <= 0 {
		c.TripThreshold = def.TripThreshold
	}
	if c.TripFailureRate <= 0 || c.TripFailureRate >= 1 {
		c.TripFailureRate = def.TripFailureRate
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = def.OpenTimeout
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = def.SuccessThreshold
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.DefaultRegion == "" {
		c.DefaultRegion = def.DefaultRegion
	}
	if c.FallbackCacheSize <= 0 {
		c.FallbackCacheSize = def.FallbackCacheSize
	}
	return c
}
