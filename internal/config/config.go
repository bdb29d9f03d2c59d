package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, e.g. METEORITES_HASH_KEY
const EnvPrefix = "METEORITES"

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	HashKey   string          `mapstructure:"hash_key" yaml:"hash_key"`     // Salt for client key hashing
	JWTSecret string          `mapstructure:"jwt_secret" yaml:"jwt_secret"` // Optional, enables bearer client identity
	Limits    Limits          `mapstructure:"limits" yaml:"limits"`
	Dataset   DatasetConfig   `mapstructure:"dataset" yaml:"dataset"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            string `mapstructure:"port" yaml:"port"`
	TrustedPlatform string `mapstructure:"trusted_platform" yaml:"trusted_platform"` // Header carrying the client IP, empty to use the peer address
}

// Limits are the query bounds enforced by the API
type Limits struct {
	RateLimitIntervalS       int `mapstructure:"rate_limit_interval_s" yaml:"rate_limit_interval_s"`
	MaxRandomRecords         int `mapstructure:"max_random_records" yaml:"max_random_records"`
	MaxReturnedSearchResults int `mapstructure:"max_returned_search_results" yaml:"max_returned_search_results"`
	MinRadius                int `mapstructure:"min_radius" yaml:"min_radius"` // Kilometers
	MaxRadius                int `mapstructure:"max_radius" yaml:"max_radius"` // Kilometers
	DefaultRandomCount       int `mapstructure:"default_random_count" yaml:"default_random_count"`
}

// RateLimitInterval returns the window as a duration
func (l Limits) RateLimitInterval() time.Duration {
	return time.Duration(l.RateLimitIntervalS) * time.Second
}

// DatasetConfig selects where the raw dataset is read from
type DatasetConfig struct {
	Source string   `mapstructure:"source" yaml:"source"` // file, sqlite, s3
	Path   string   `mapstructure:"path" yaml:"path"`     // JSON file or SQLite database
	Table  string   `mapstructure:"table" yaml:"table"`   // SQLite table
	S3     S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config locates a dataset object in S3-compatible storage
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Object    string `mapstructure:"object" yaml:"object"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// RateLimitConfig selects the rate-limit store
type RateLimitConfig struct {
	Store      string `mapstructure:"store" yaml:"store"`             // memory, sqlite
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"` // Used by the sqlite store
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// MinLimits are the smallest accepted values for each limit
var MinLimits = Limits{
	RateLimitIntervalS:       1,
	MaxRandomRecords:         100,
	MaxReturnedSearchResults: 100,
	MinRadius:                1,
	MaxRadius:                1000,
	DefaultRandomCount:       100,
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: ":8080", TrustedPlatform: "CF-Connecting-IP"},
		Limits: Limits{
			RateLimitIntervalS:       1,
			MaxRandomRecords:         1000,
			MaxReturnedSearchResults: 500,
			MinRadius:                1,
			MaxRadius:                2500,
			DefaultRandomCount:       100,
		},
		Dataset: DatasetConfig{
			Source: "file",
			Path:   "./data/meteorites.json",
			Table:  "meteorites",
			S3:     S3Config{UseSSL: true},
		},
		RateLimit: RateLimitConfig{
			Store:      "memory",
			SQLitePath: "./data/ratelimit.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with viper so env vars and Unmarshal see them
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.trusted_platform", d.Server.TrustedPlatform)
	v.SetDefault("hash_key", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("limits.rate_limit_interval_s", d.Limits.RateLimitIntervalS)
	v.SetDefault("limits.max_random_records", d.Limits.MaxRandomRecords)
	v.SetDefault("limits.max_returned_search_results", d.Limits.MaxReturnedSearchResults)
	v.SetDefault("limits.min_radius", d.Limits.MinRadius)
	v.SetDefault("limits.max_radius", d.Limits.MaxRadius)
	v.SetDefault("limits.default_random_count", d.Limits.DefaultRandomCount)
	v.SetDefault("dataset.source", d.Dataset.Source)
	v.SetDefault("dataset.path", d.Dataset.Path)
	v.SetDefault("dataset.table", d.Dataset.Table)
	v.SetDefault("dataset.s3.endpoint", "")
	v.SetDefault("dataset.s3.bucket", "")
	v.SetDefault("dataset.s3.object", "")
	v.SetDefault("dataset.s3.access_key", "")
	v.SetDefault("dataset.s3.secret_key", "")
	v.SetDefault("dataset.s3.use_ssl", d.Dataset.S3.UseSSL)
	v.SetDefault("ratelimit.store", d.RateLimit.Store)
	v.SetDefault("ratelimit.sqlite_path", d.RateLimit.SQLitePath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// BindEnv makes METEORITES_LIMITS_MAX_RADIUS and friends override file values
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load 加载配置
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the limits against MinLimits and their mutual constraints
func (l Limits) Validate() error {
	var errs []error
	check := func(name string, value, minimum int) {
		if value < minimum {
			errs = append(errs, fmt.Errorf("%s must be at least %d, got %d", name, minimum, value))
		}
	}

	check("rate_limit_interval_s", l.RateLimitIntervalS, MinLimits.RateLimitIntervalS)
	check("max_random_records", l.MaxRandomRecords, MinLimits.MaxRandomRecords)
	check("max_returned_search_results", l.MaxReturnedSearchResults, MinLimits.MaxReturnedSearchResults)
	check("min_radius", l.MinRadius, MinLimits.MinRadius)
	check("max_radius", l.MaxRadius, MinLimits.MaxRadius)
	check("default_random_count", l.DefaultRandomCount, MinLimits.DefaultRandomCount)

	if l.DefaultRandomCount > l.MaxRandomRecords {
		errs = append(errs, fmt.Errorf("default_random_count (%d) must not exceed max_random_records (%d)",
			l.DefaultRandomCount, l.MaxRandomRecords))
	}
	if l.MinRadius > l.MaxRadius {
		errs = append(errs, fmt.Errorf("min_radius (%d) must not exceed max_radius (%d)", l.MinRadius, l.MaxRadius))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy with secrets masked, for display
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.HashKey = mask(c.HashKey)
	c.JWTSecret = mask(c.JWTSecret)
	c.Dataset.S3.SecretKey = mask(c.Dataset.S3.SecretKey)
	return c
}
