package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from the environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	DBPath          string `env:"BIBLIOTECA_DB" envDefault:"biblioteca.db"`
	LoanDays        int    `env:"LOAN_DAYS" envDefault:"15"`
	MaxLoansPerUser int    `env:"MAX_LOANS_PER_USER" envDefault:"5"`
	AdminUsername   string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword   string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	ExportDir       string `env:"EXPORT_DIR" envDefault:"descargas"`
	Debug           bool   `env:"DEBUG"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"` // "text" or "json"
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.LoanDays <= 0 {
		return nil, fmt.Errorf("LOAN_DAYS must be positive, got %d", cfg.LoanDays)
	}
	if cfg.MaxLoansPerUser <= 0 {
		return nil, fmt.Errorf("MAX_LOANS_PER_USER must be positive, got %d", cfg.MaxLoansPerUser)
	}
	return cfg, nil
}

// NewLogger builds the application logger. Debug mode lowers the level;
// the console UI keeps printing through fmt regardless, so the logger
// writes to stderr and stays quiet unless asked.
func NewLogger(cfg *Config) *slog.Logger {
	lvl := slog.LevelWarn
	if cfg.Debug {
		lvl = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(handler)
}
