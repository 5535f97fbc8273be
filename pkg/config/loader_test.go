package config_test

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/config"
)

type defaultsConfig struct {
	Str  string `env:"CONFIG_TEST_STRING_DEFAULT" envDefault:"default_value"`
	Int  int    `env:"CONFIG_TEST_INT_DEFAULT" envDefault:"42"`
	Bool bool   `env:"CONFIG_TEST_BOOL_DEFAULT" envDefault:"true"`
}

type requiredConfig struct {
	Required string `env:"CONFIG_TEST_REQUIRED,required"`
}

type singletonConfig struct {
	Value string `env:"CONFIG_TEST_SINGLETON" envDefault:"first"`
}

type validatedConfig struct {
	Port int `env:"CONFIG_TEST_PORT" envDefault:"8080"`
}

func (c validatedConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("CONFIG_TEST_PORT out of range")
	}
	return nil
}

type pointerValidatedConfig struct {
	Name string `env:"CONFIG_TEST_NAME"`
}

func (c *pointerValidatedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("CONFIG_TEST_NAME is empty")
	}
	return nil
}

type fileConfig struct {
	Bind     string   `env:"CONFIG_TEST_BIND"`
	Scopes   []string `env:"CONFIG_TEST_SCOPES" envSeparator:","`
	OnlyFile string   `env:"CONFIG_TEST_ONLY_IN_FILE"`
	Second   string   `env:"CONFIG_TEST_SECOND_FILE"`
}

func TestLoad_DefaultValues(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "default_value", cfg.Str)
	assert.Equal(t, 42, cfg.Int)
	assert.True(t, cfg.Bool)
}

func TestLoad_MissingRequired(t *testing.T) {
	config.ResetCache()
	os.Unsetenv("CONFIG_TEST_REQUIRED")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CONFIG_TEST_REQUIRED", "present")
	require.NoError(t, config.Load(&cfg), "failed parse must not be cached")
	assert.Equal(t, "present", cfg.Required)
}

func TestLoad_Singleton(t *testing.T) {
	config.ResetCache()
	t.Setenv("CONFIG_TEST_SINGLETON", "first")

	var first singletonConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CONFIG_TEST_SINGLETON", "second")

	var cached singletonConfig
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "first", cached.Value, "cached value must be returned")

	config.ResetCache()
	var reloaded singletonConfig
	require.NoError(t, config.Load(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestLoad_Concurrent(t *testing.T) {
	config.ResetCache()
	t.Setenv("CONFIG_TEST_SINGLETON", "shared")

	var wg sync.WaitGroup
	results := make([]singletonConfig, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = config.Load(&results[i])
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r.Value)
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Run("value receiver", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("CONFIG_TEST_PORT", "70000")

		var cfg validatedConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "out of range")

		t.Setenv("CONFIG_TEST_PORT", "8443")
		require.NoError(t, config.Load(&cfg), "failed validation must not be cached")
		assert.Equal(t, 8443, cfg.Port)
	})

	t.Run("pointer receiver", func(t *testing.T) {
		config.ResetCache()
		os.Unsetenv("CONFIG_TEST_NAME")

		var cfg pointerValidatedConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)

		t.Setenv("CONFIG_TEST_NAME", "gateway")
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "gateway", cfg.Name)
	})
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnv(t *testing.T) {
	for _, key := range []string{"CONFIG_TEST_BIND", "CONFIG_TEST_SCOPES", "CONFIG_TEST_ONLY_IN_FILE", "CONFIG_TEST_SECOND_FILE"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.gateway", "testdata/.env.override"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, ":9090", cfg.Bind, "first file wins")
	assert.Equal(t, []string{"public", "projects"}, cfg.Scopes)
	assert.Equal(t, "from_file", cfg.OnlyFile)
	assert.Equal(t, "second", cfg.Second)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	require.Error(t, config.LoadEnv("testdata/does_not_exist.env"))
}
