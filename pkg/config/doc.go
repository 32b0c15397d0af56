// Package config loads application configuration from environment variables
// into annotated structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process (a missing file is fine), then
// env.Parse populates struct fields from `env` tags.
//
// # Usage
//
//	type BreakerConfig struct {
//	    TripThreshold int           `env:"BREAKER_TRIP_THRESHOLD" envDefault:"5"`
//	    OpenTimeout   time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"60s"`
//	}
//
//	var cfg BreakerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Every call re-reads the process environment, so tests can set variables
// with t.Setenv and load a fresh struct each time.
//
// # Error Handling
//
// Sentinel errors compare with errors.Is:
//
//   - ErrParsingConfig - env vars could not be parsed into the struct.
//   - ErrNilPointer    - nil pointer passed to Load or MustLoad.
package config
