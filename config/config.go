package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration of the payroll server.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Records  RecordsConfig
	// RatesFile replaces the embedded statutory rate table when set.
	RatesFile string
}

type AppConfig struct {
	Port           int
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Path string
}

// RecordsConfig controls saved calculations. Zero retention keeps them forever.
type RecordsConfig struct {
	RetentionDays int
}

// Load reads the environment, first applying any .env files given (default
// ".env"). Missing files are skipped; variables already set win over files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	port, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	retention, err := strconv.Atoi(getEnv("RECORD_RETENTION_DAYS", "365"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECORD_RETENTION_DAYS: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:           port,
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       level,
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/payroll.db"),
		},
		Records: RecordsConfig{
			RetentionDays: retention,
		},
		RatesFile: getEnv("RATES_FILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.App.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Records.RetentionDays < 0 {
		return fmt.Errorf("RECORD_RETENTION_DAYS cannot be negative: %d", c.Records.RetentionDays)
	}
	if len(c.App.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS is required")
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, fallback), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
