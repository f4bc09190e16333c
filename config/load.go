package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. UNBURYME_SERVER_PORT.
const EnvPrefix = "UNBURYME"

var defaults = map[string]any{
	"app.name":    "Loan Calculator",
	"app.version": "1.0.0",

	"server.port":          8080,
	"server.log_level":     "info",
	"server.log_format":    "json",
	"server.read_timeout":  15 * time.Second,
	"server.write_timeout": 15 * time.Second,
	"server.idle_timeout":  60 * time.Second,

	"limits.max_principal":        1_000_000_000.0,
	"limits.max_interest_rate":    40.0,
	"limits.max_term_years":       50,
	"limits.max_loans_per_total":  50,
	"limits.max_term_range_years": 40,

	"cache.backend":    "memory",
	"cache.redis_addr": "localhost:6379",
	"cache.ttl":        10 * time.Minute,
	"cache.size":       1000,

	"storage.backend":     "memory",
	"storage.sqlite_path": "./data/unburyme.db",

	"rate_limit.capacity":   5,
	"rate_limit.refill":     time.Minute,
	"rate_limit.batch_cost": 2,
}

// Load reads configuration. configFile may be empty; a missing .env file is
// not an error, a malformed one is.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("unburyme")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about; every default
	// is bound so Unmarshal sees env overrides.
	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
