// Package config loads runtime settings from the environment (optionally
// seeded from a .env file) and holds the domain constants.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Dashboard
	RecentWindowDays = 30

	// Statistics API
	DefaultStatsBaseURL = "https://disease.sh/v3/covid-19"
	StatsStaleTime      = 5 * time.Minute
	DefaultLookbackDays = 30
	DefaultCompareLimit = 10

	// Auth
	PasswordHashCost = 10
	DefaultTokenTTL  = 72 * time.Hour
	TokenIssuer      = "complaintdesk-service"

	// Listing
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Config is everything cmd/ binaries need to wire the application.
type Config struct {
	Environment string
	LogLevel    string
	HTTPAddr    string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	StatsBaseURL   string
	StatsStaleTime time.Duration

	TelegramToken       string
	TelegramAdminChatID int64
	TelegramLanguage    string
	// LocalesDir overrides the built-in translations when set.
	LocalesDir          string
}

// Load reads .env (when present) and the process environment.
// The returned bool reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{
		Environment:      getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:      databaseDSN(),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		StatsBaseURL:     getEnv("STATS_BASE_URL", DefaultStatsBaseURL),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramLanguage: getEnv("TELEGRAM_LANGUAGE", "en"),
		LocalesDir:       os.Getenv("LOCALES_DIR"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, dotenv, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", DefaultTokenTTL); err != nil {
		return nil, dotenv, err
	}
	if cfg.StatsStaleTime, err = getDuration("STATS_STALE_TIME", StatsStaleTime); err != nil {
		return nil, dotenv, err
	}
	if raw := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); raw != "" {
		cfg.TelegramAdminChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, dotenv, fmt.Errorf("config: TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
	}

	return cfg, dotenv, nil
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: database is not configured")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is not set")
	}
	return nil
}

func databaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "user"),
		getEnv("DB_PASSWORD", "password"),
		getEnv("DB_NAME", "complaintdesk"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
