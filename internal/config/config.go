package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Config is the root of configs/server.yaml.
	Config struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		JWT       JWTConfig       `yaml:"jwt"`
		Logger    LoggerConfig    `yaml:"logger"`
		RateLimit RateLimitConfig `yaml:"rate_limit"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   TracingConfig   `yaml:"tracing"`
		Seed      SeedConfig      `yaml:"seed"`
	}

	ServerConfig struct {
		Addr        string   `yaml:"addr"`
		GinMode     string   `yaml:"gin_mode"`
		CORSOrigins []string `yaml:"cors_origins"`
	}

	// DatabaseConfig selects the storage backend. Type is memory, mysql, postgres or sqlite.
	DatabaseConfig struct {
		Type            string        `yaml:"type"`
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		DBName          string        `yaml:"dbname"`
		SSLMode         string        `yaml:"sslmode"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`
		Color      bool   `yaml:"color"`
		Stacktrace bool   `yaml:"stacktrace"`
		TimeZone   string `yaml:"time_zone"`
		TimeFormat string `yaml:"time_format"`
	}

	// RateLimitConfig limits login attempts per client and username. Type is memory or redis.
	RateLimitConfig struct {
		Enabled     bool          `yaml:"enabled"`
		Type        string        `yaml:"type"`
		MaxAttempts int           `yaml:"max_attempts"`
		Window      time.Duration `yaml:"window"`
		Redis       RedisConfig   `yaml:"redis"`
	}

	RedisConfig struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// TracingConfig represents OpenTelemetry tracing configuration
	TracingConfig struct {
		Enabled     bool              `yaml:"enabled"`
		ServiceName string            `yaml:"service_name"`
		Endpoint    string            `yaml:"endpoint"` // e.g. localhost:4317 or http://localhost:4318
		Protocol    string            `yaml:"protocol"` // grpc or http
		Insecure    bool              `yaml:"insecure"`
		SamplerRate float64           `yaml:"sampler_rate"`
		Environment string            `yaml:"environment"`
		Headers     map[string]string `yaml:"headers"`
	}

	SeedConfig struct {
		Enabled bool `yaml:"enabled"`
	}
)

const minSecretLength = 32

var (
	ErrMissingSecret = errors.New("jwt.secret_key is required")
	ErrWeakSecret    = fmt.Errorf("jwt.secret_key must be at least %d characters", minSecretLength)
)

// LoadConfig loads configuration from a YAML file with environment variable support.
func LoadConfig(path string) (*Config, error) {
	loadDotEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML content, resolves ${ENV:default} placeholders and applies defaults.
func Parse(data []byte) (*Config, error) {
	data = resolveEnv(data)
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Type == "" {
		c.Database.Type = "memory"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 25
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 10 * time.Minute
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = 24 * time.Hour
	}
	if c.RateLimit.Type == "" {
		c.RateLimit.Type = "memory"
	}
	if c.RateLimit.MaxAttempts <= 0 {
		c.RateLimit.MaxAttempts = 5
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.RateLimit.Redis.Prefix == "" {
		c.RateLimit.Redis.Prefix = "tiyende:login:"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "tiyende"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "tiyende-api"
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.JWT.SecretKey)
	if secret == "" {
		return ErrMissingSecret
	}
	if len(secret) < minSecretLength {
		return ErrWeakSecret
	}
	switch c.Database.Type {
	case "memory", "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	switch c.RateLimit.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported rate_limit type %q", c.RateLimit.Type)
	}
	return nil
}
