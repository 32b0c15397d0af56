package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/finkit/pkg/config"
)

type breakerEnv struct {
	TripThreshold int           `env:"TEST_TRIP_THRESHOLD" envDefault:"5"`
	OpenTimeout   time.Duration `env:"TEST_OPEN_TIMEOUT" envDefault:"60s"`
	DefaultRegion string        `env:"TEST_DEFAULT_REGION" envDefault:"US"`
}

type requiredEnv struct {
	Secret string `env:"TEST_WEBHOOK_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg breakerEnv
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 5, cfg.TripThreshold)
	assert.Equal(t, 60*time.Second, cfg.OpenTimeout)
	assert.Equal(t, "US", cfg.DefaultRegion)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_TRIP_THRESHOLD", "10")
	t.Setenv("TEST_OPEN_TIMEOUT", "90s")

	var cfg breakerEnv
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 10, cfg.TripThreshold)
	assert.Equal(t, 90*time.Second, cfg.OpenTimeout)
}

func TestLoad_ReloadSeesChanges(t *testing.T) {
	t.Setenv("TEST_DEFAULT_REGION", "EU")

	var first breakerEnv
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "EU", first.DefaultRegion)

	t.Setenv("TEST_DEFAULT_REGION", "UK")

	var second breakerEnv
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "UK", second.DefaultRegion)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredEnv
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[breakerEnv](nil)
	require.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad_PanicsOnFailure(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredEnv
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")
	require.ErrorIs(t, err, config.ErrParsingConfig)
}
