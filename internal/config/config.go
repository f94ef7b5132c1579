package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/ivanoskov/splitease/internal/repository"
)

type Config struct {
	SupabaseURL   string
	SupabaseKey   string
	ExpensesTable string
	TelegramToken string
	LogLevel      string
}

// LoadConfig reads .env when present, then the process environment.
// Supabase credentials are always required.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		ExpensesTable: getEnv("EXPENSES_TABLE", repository.DefaultTable),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, errors.New("SUPABASE_URL and SUPABASE_KEY must be set")
	}
	return cfg, nil
}

// RequireTelegram fails when the bot token is missing.
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN must be set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
