package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every key also needs a default below: viper only binds env vars for keys it
// already knows about when unmarshalling.
type Config struct {
	// Server
	Env            string `mapstructure:"APP_ENV"` // development | production
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	BindAddr       string `mapstructure:"BIND_ADDR"`
	Port           int    `mapstructure:"PORT"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Database: a postgres:// URL or a SQLite file path
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	// Store retries for transient failures (busy, serialization, dropped conn)
	StoreRetryAttempts    int `mapstructure:"STORE_RETRY_ATTEMPTS"`
	StoreRetryBaseDelayMS int `mapstructure:"STORE_RETRY_BASE_DELAY_MS"`

	// Redis is optional; empty disables low-stock alert delivery.
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	BcryptCost         int    `mapstructure:"BCRYPT_COST"`

	// Jobs
	ReconcileSchedule string `mapstructure:"RECONCILE_SCHEDULE"`

	// Seeding
	SeedDemoData      bool   `mapstructure:"SEED_DEMO_DATA"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	AlertEmailTo string `mapstructure:"ALERT_EMAIL_TO"`
}

// ListenAddr is the address the HTTP adapter binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

func (c *Config) StoreRetryBaseDelay() time.Duration {
	return time.Duration(c.StoreRetryBaseDelayMS) * time.Millisecond
}

// IsPostgres reports whether DatabaseURL points at a PostgreSQL server.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		// Development only: tokens stop validating on restart.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("config: generate JWT secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(buf)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BIND_ADDR", "127.0.0.1")
	v.SetDefault("PORT", 8765)
	v.SetDefault("WORKER_POOL_SIZE", 2)
	v.SetDefault("DATABASE_URL", "inventory.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("STORE_RETRY_ATTEMPTS", 3)
	v.SetDefault("STORE_RETRY_BASE_DELAY_MS", 50)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RECONCILE_SCHEDULE", "0 * * * *")
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("SEED_ADMIN_PASSWORD", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("ALERT_EMAIL_TO", "")
}

func (c *Config) validate() error {
	if c.Env == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("config: JWT_SECRET must be at least 32 characters in production")
	}
	if c.StoreRetryAttempts < 1 {
		return fmt.Errorf("config: STORE_RETRY_ATTEMPTS must be >= 1, got %d", c.StoreRetryAttempts)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
