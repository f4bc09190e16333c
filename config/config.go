// Package config loads application settings from defaults, an optional YAML
// file, a .env file and UNBURYME_* environment variables, in increasing order
// of precedence.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Limits    LimitsConfig    `mapstructure:"limits" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel     string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat    string        `mapstructure:"log_format" validate:"required,oneof=json text"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
}

// LimitsConfig bounds what a single request may ask the engine to compute.
type LimitsConfig struct {
	MaxPrincipal      float64 `mapstructure:"max_principal" validate:"gt=0"`
	MaxInterestRate   float64 `mapstructure:"max_interest_rate" validate:"gt=0,lte=40"`
	MaxTermYears      int     `mapstructure:"max_term_years" validate:"gt=0,lte=50"`
	MaxLoansPerTotal  int     `mapstructure:"max_loans_per_total" validate:"gt=0"`
	MaxTermRangeYears int     `mapstructure:"max_term_range_years" validate:"gt=0"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend" validate:"required,oneof=memory redis none"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Size      int           `mapstructure:"size" validate:"gt=0"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend" validate:"required,oneof=memory sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// RateLimitConfig sizes the per-client token bucket. BatchCost is charged by
// /loan/total and /loan/recommend-term.
type RateLimitConfig struct {
	Capacity  int           `mapstructure:"capacity" validate:"gt=0"`
	Refill    time.Duration `mapstructure:"refill" validate:"gt=0"`
	BatchCost int           `mapstructure:"batch_cost" validate:"gte=1"`
}
