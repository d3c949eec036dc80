package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Audit    AuditConfig
	Logger   LoggerConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig is used by the postgres audit driver
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type AuditConfig struct {
	Driver     string // file, postgres, sqlite3 or none
	Path       string
	SQLitePath string
}

type LoggerConfig struct {
	Level  string
	Format string // json or text
}

type LedgerConfig struct {
	WithdrawalCeiling      decimal.Decimal
	WithdrawalCountCeiling int
	DailyTransactionLimit  int
}

// Load reads configuration from the environment. A .env file is loaded
// first when envPath is given or one exists in the working directory.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	ceiling, err := getDecimalEnv("WITHDRAWAL_CEILING", decimal.NewFromInt(500))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "ledger"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 2),
		},
		Audit: AuditConfig{
			Driver:     strings.ToLower(getEnv("AUDIT_DRIVER", "file")),
			Path:       getEnv("AUDIT_PATH", "log.txt"),
			SQLitePath: getEnv("AUDIT_SQLITE_PATH", "audit.db"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Ledger: LedgerConfig{
			WithdrawalCeiling:      ceiling,
			WithdrawalCountCeiling: getIntEnv("WITHDRAWAL_COUNT_CEILING", 50),
			DailyTransactionLimit:  getIntEnv("DAILY_TRANSACTION_LIMIT", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Audit.Driver {
	case "file", "postgres", "sqlite3", "none":
	default:
		return fmt.Errorf("invalid AUDIT_DRIVER %q: must be file, postgres, sqlite3 or none", c.Audit.Driver)
	}

	if !c.Ledger.WithdrawalCeiling.IsPositive() {
		return fmt.Errorf("WITHDRAWAL_CEILING must be positive")
	}
	if c.Ledger.WithdrawalCountCeiling < 0 {
		return fmt.Errorf("WITHDRAWAL_COUNT_CEILING cannot be negative")
	}
	if c.Ledger.DailyTransactionLimit < 0 {
		return fmt.Errorf("DAILY_TRANSACTION_LIMIT cannot be negative")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// NewLogger builds a slog logger honoring the level and format settings
func (c LoggerConfig) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value for %s: %s", key, value)
	}
	return d, nil
}
