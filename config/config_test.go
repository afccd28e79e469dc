package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "data/state", cfg.StateStore.Path)
	require.Equal(t, 10*time.Second, cfg.Client.RequestTimeout.Duration())
	require.False(t, cfg.Metrics.Enabled)
}

func TestLoadConfig(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		cfg := DefaultConfig()
		cfg.StateStore.CacheSize = 500
		cfg.Client.Endpoint = "http://10.0.0.1:26657"
		cfg.Client.RequestTimeout = Duration(3 * time.Second)
		require.NoError(t, WriteConfigFile(path, cfg))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, cfg, loaded)
	})

	t.Run("missing values fall back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[client]\nendpoint = \"http://example:26657\"\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "http://example:26657", cfg.Client.Endpoint)
		require.Equal(t, DefaultConfig().StateStore, cfg.StateStore)
	})

	t.Run("duration parsing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[client]\nrequest_timeout = \"250ms\"\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 250*time.Millisecond, cfg.Client.RequestTimeout.Duration())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[statestore]\npath = \"\"\n"), 0644))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrEmptyStateStorePath)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative cache size", func(c *Config) { c.StateStore.CacheSize = -1 }, ErrInvalidStateCacheSize},
		{"empty endpoint", func(c *Config) { c.Client.Endpoint = "" }, ErrEmptyClientEndpoint},
		{"zero timeout", func(c *Config) { c.Client.RequestTimeout = 0 }, ErrInvalidRequestTimeout},
		{"metrics namespace required when enabled", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Namespace = ""
		}, ErrEmptyMetricsNamespace},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"empty log output", func(c *Config) { c.Logging.Output = "" }, ErrEmptyLogOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StateStore.Path = filepath.Join(t.TempDir(), "nested", "state")
	require.NoError(t, cfg.EnsureDataDirs())
	require.DirExists(t, cfg.StateStore.Path)
}
