package config_test

import (
	"testing"

	"github.com/cosmos-dx/allone-web-sub001/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vaultConfig struct {
	StorePath  string `env:"TEST_ALLONE_STORE_PATH" envDefault:"/tmp/allone"`
	Iterations int    `env:"TEST_ALLONE_ITERATIONS" envDefault:"100000"`
}

type requiredConfig struct {
	Key string `env:"TEST_ALLONE_REQUIRED_KEY,required"`
}

func TestLoadDefaults(t *testing.T) {
	config.Reset()

	var cfg vaultConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/tmp/allone", cfg.StorePath)
	assert.Equal(t, 100000, cfg.Iterations)
}

func TestLoadFromEnvironment(t *testing.T) {
	config.Reset()
	t.Setenv("TEST_ALLONE_STORE_PATH", "/var/lib/allone")
	t.Setenv("TEST_ALLONE_ITERATIONS", "250000")

	var cfg vaultConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/var/lib/allone", cfg.StorePath)
	assert.Equal(t, 250000, cfg.Iterations)
}

func TestLoadCachesPerType(t *testing.T) {
	config.Reset()
	t.Setenv("TEST_ALLONE_STORE_PATH", "/first")

	var first vaultConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_ALLONE_STORE_PATH", "/second")

	var second vaultConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "/first", second.StorePath, "cached value should win over the mutated environment")
}

func TestLoadMissingRequired(t *testing.T) {
	config.Reset()

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadNilPointer(t *testing.T) {
	config.Reset()

	err := config.Load[vaultConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
