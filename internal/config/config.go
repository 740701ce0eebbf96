package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kerhoff/mizan/internal/nutrition"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL    string
	JWTSecret      string
	TelegramToken  string
	LogLevel       string
	PrometheusPort string
	Port           string
	MigrationsPath string
	WeekStart      time.Weekday
	TokenTTL       time.Duration
	// DigestHour is the UTC hour of the daily Telegram plan digest, -1 when disabled.
	DigestHour int

	LLMAPIURL string
	LLMAPIKey string
	LLMModel  string
}

// Load reads an optional .env file and then configuration from environment
// variables. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		Port:           getEnvOrDefault("PORT", "8080"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		LLMAPIURL:      os.Getenv("LLM_API_URL"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	weekStart, err := nutrition.ParseWeekday(getEnvOrDefault("WEEK_START", "monday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEK_START: %w", err)
	}
	cfg.WeekStart = weekStart

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	cfg.DigestHour = -1
	if raw := os.Getenv("DIGEST_HOUR"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid DIGEST_HOUR: want 0-23, got %q", raw)
		}
		cfg.DigestHour = hour
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
