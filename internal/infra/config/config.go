package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	ServerPort  string
	DatabaseURL string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	JWTSecret          string
	RealtimeEnabled    bool

	TelegramToken     string // optional, disables notifications when empty
	ManagerTelegramID int64

	LogLevel    string
	Environment string

	CronSpecMenuReminder string
	CronSpecCarryForward string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SupabaseURL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}

	cfg.SupabaseAnonKey = os.Getenv("SUPABASE_ANON_KEY")
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is not set")
	}

	cfg.SupabaseServiceKey = os.Getenv("SUPABASE_SERVICE_KEY")
	if cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is not set")
	}

	cfg.JWTSecret = os.Getenv("SUPABASE_JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is not set")
	}

	cfg.ServerPort = os.Getenv("PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if v := os.Getenv("REALTIME_ENABLED"); v != "" {
		cfg.RealtimeEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REALTIME_ENABLED: %w", err)
		}
	} else {
		cfg.RealtimeEnabled = true
	}

	// Telegram is optional: without a token the reminder jobs still run but
	// only log instead of messaging the manager.
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if managerIDStr := os.Getenv("MANAGER_TELEGRAM_ID"); managerIDStr != "" {
		cfg.ManagerTelegramID, err = strconv.ParseInt(managerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MANAGER_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.ManagerTelegramID == 0 {
		return nil, fmt.Errorf("MANAGER_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecMenuReminder = os.Getenv("CRON_SPEC_MENU_REMINDER")
	if cfg.CronSpecMenuReminder == "" {
		cfg.CronSpecMenuReminder = "0 17 * * *" // Default: 17:00 daily
	}

	cfg.CronSpecCarryForward = os.Getenv("CRON_SPEC_CARRY_FORWARD")
	if cfg.CronSpecCarryForward == "" {
		cfg.CronSpecCarryForward = "0 22 * * *" // Default: 22:00 daily
	}

	return cfg, nil
}
