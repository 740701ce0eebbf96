package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DATABASE_URL", "JWT_SECRET", "TELEGRAM_TOKEN", "LOG_LEVEL", "PROMETHEUS_PORT",
	"PORT", "MIGRATIONS_PATH", "WEEK_START", "TOKEN_TTL", "LLM_API_URL", "LLM_API_KEY", "LLM_MODEL", "DIGEST_HOUR",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://mizan@localhost/mizan?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.PrometheusPort)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.TelegramToken)
	assert.Empty(t, cfg.LLMAPIURL)
	assert.Equal(t, -1, cfg.DigestHour)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("WEEK_START", "Sun")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("PORT", "3000")
	t.Setenv("LLM_API_URL", "https://llm.example.com/v1")
	t.Setenv("DIGEST_HOUR", "0")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://llm.example.com/v1", cfg.LLMAPIURL)
	assert.Equal(t, 0, cfg.DigestHour)
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"bad weekday", map[string]string{"WEEK_START": "someday"}, "WEEK_START"},
		{"bad ttl", map[string]string{"TOKEN_TTL": "three days"}, "TOKEN_TTL"},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1h"}, "TOKEN_TTL"},
		{"digest hour out of range", map[string]string{"DIGEST_HOUR": "24"}, "DIGEST_HOUR"},
		{"digest hour not a number", map[string]string{"DIGEST_HOUR": "seven"}, "DIGEST_HOUR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := fromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	for _, k := range configKeys {
		require.NoError(t, os.Unsetenv(k))
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DATABASE_URL=postgres://from-file\nJWT_SECRET=file-secret\nWEEK_START=saturday\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-file", cfg.DatabaseURL)
	assert.Equal(t, time.Saturday, cfg.WeekStart)
}
