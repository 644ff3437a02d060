package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileThenEnvOverlay(t *testing.T) {
	path := writeConfigFile(t, `
server:
  env: production
store:
  type: local
  base_path: /var/lib/feedback
  users_bin: people
session:
  secret: file-secret
analytics:
  push_interval: 5s
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "6000")
	t.Setenv("STORE_FEEDBACK_BIN", "entries")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "/var/lib/feedback", cfg.Store.BasePath)
	assert.Equal(t, "people", cfg.Store.UsersBin)
	assert.Equal(t, "entries", cfg.Store.FeedbackBin)
	assert.Equal(t, "file-secret", cfg.Session.Secret)
	assert.Equal(t, 5*time.Second, cfg.Analytics.PushInterval)
	assert.Equal(t, 30, cfg.Analytics.WindowDays)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	path := writeConfigFile(t, "server:\n  env: production\n")
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.secret")
}

func TestLoad_DevelopmentGeneratesSecret(t *testing.T) {
	path := writeConfigFile(t, "server:\n  env: development\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Session.Secret)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 4000, Env: "production"},
		Store: StoreConfig{
			Type:        "local",
			BasePath:    "./data",
			UsersBin:    "users",
			FeedbackBin: "feedback",
		},
		Session:   SessionConfig{Secret: "s", TTL: time.Hour},
		Analytics: AnalyticsConfig{PushInterval: 10 * time.Second, WindowDays: 30, TimeSeriesDays: 30},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid local", mutate: func(c *Config) {}},
		{
			name:    "bin needs base url and key",
			mutate:  func(c *Config) { c.Store.Type = "bin" },
			wantErr: "store.base_url",
		},
		{
			name: "bin complete",
			mutate: func(c *Config) {
				c.Store.Type = "bin"
				c.Store.BaseURL = "https://api.example.com/v3/b"
				c.Store.APIKey = "key"
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Type = "ftp" },
			wantErr: "unsupported store type",
		},
		{
			name: "database driver",
			mutate: func(c *Config) {
				c.Store.Type = "database"
				c.Store.DatabaseDriver = "oracle"
				c.Store.DatabaseDSN = "x"
			},
			wantErr: "unsupported driver",
		},
		{
			name:    "same collection for users and feedback",
			mutate:  func(c *Config) { c.Store.FeedbackBin = "users" },
			wantErr: "must differ",
		},
		{
			name:    "push interval",
			mutate:  func(c *Config) { c.Analytics.PushInterval = 0 },
			wantErr: "push_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
