package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "Loan Calculator", cfg.App.Name)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 50, cfg.Limits.MaxTermYears)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimit.Refill)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UNBURYME_SERVER_PORT", "9090")
	t.Setenv("UNBURYME_SERVER_LOG_LEVEL", "debug")
	t.Setenv("UNBURYME_CACHE_TTL", "30s")
	t.Setenv("UNBURYME_STORAGE_BACKEND", "sqlite")
	t.Setenv("UNBURYME_STORAGE_SQLITE_PATH", "/tmp/loans.db")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/loans.db", cfg.Storage.SQLitePath)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UNBURYME_APP_NAME=From Dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("UNBURYME_APP_NAME") })

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "From Dotenv", cfg.App.Name)
}

func TestLoad_MalformedDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOT-A-KEY=1\n"), 0o600))

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load .env file")
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 7070
  log_format: text
limits:
  max_term_years: 30
cache:
  backend: redis
  redis_addr: cache:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, 30, cfg.Limits.MaxTermYears)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UNBURYME_SERVER_LOG_LEVEL", "chatty")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func validConfig() Config {
	return Config{
		App: AppConfig{Name: "Loan Calculator", Version: "1.0.0"},
		Server: ServerConfig{
			Port: 8080, LogLevel: "info", LogFormat: "json",
			ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second,
		},
		Limits: LimitsConfig{
			MaxPrincipal: 1e9, MaxInterestRate: 40, MaxTermYears: 50,
			MaxLoansPerTotal: 50, MaxTermRangeYears: 40,
		},
		Cache:     CacheConfig{Backend: "memory", TTL: time.Minute, Size: 10},
		Storage:   StorageConfig{Backend: "memory"},
		RateLimit: RateLimitConfig{Capacity: 5, Refill: time.Minute, BatchCost: 2},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without address", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }, true},
		{"sqlite without path", func(c *Config) { c.Storage.Backend = "sqlite" }, true},
		{"sqlite with path", func(c *Config) { c.Storage.Backend = "sqlite"; c.Storage.SQLitePath = "x.db" }, false},
		{"zero rate limit", func(c *Config) { c.RateLimit.Capacity = 0 }, true},
		{"zero batch cost", func(c *Config) { c.RateLimit.BatchCost = 0 }, true},
		{"interest rate limit too steep to amortize", func(c *Config) { c.Limits.MaxInterestRate = 100 }, true},
		{"term limit too long to amortize", func(c *Config) { c.Limits.MaxTermYears = 51 }, true},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
