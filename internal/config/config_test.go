package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("NOTIFICATION_TTL", "")
	t.Setenv("EXPORT_DELAY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(42), cfg.Seed.RandomSeed)
	assert.Equal(t, 4*time.Second, cfg.Notifications.TTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Export.Delay)
	assert.Equal(t, 400*time.Millisecond, cfg.Analytics.LoadingDelay)
	assert.Equal(t, float64(500000000), cfg.Analytics.RevenueReference)
	assert.Equal(t, "@every 1s", cfg.Notifications.SweepSchedule)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.WeeklySchedule)
	assert.Empty(t, cfg.MongoDB.URI)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=9191\nEXPORT_DELAY=2s\nSEED=7\n"), 0o600))

	// godotenv never overrides variables that are already set.
	for _, key := range []string{"APP_PORT", "EXPORT_DELAY", "SEED"} {
		prev, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Export.Delay)
	assert.Equal(t, int64(7), cfg.Seed.RandomSeed)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("NOTIFICATION_TTL", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:        ServerConfig{Port: "8080"},
			Logging:       LoggingConfig{Level: "info"},
			Seed:          SeedConfig{DefaultProject: "X"},
			Notifications: NotificationsConfig{TTL: time.Second, SweepSchedule: "@every 1s"},
			Export:        ExportConfig{Delay: time.Second},
			Analytics:     AnalyticsConfig{RevenueReference: 1},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"zero ttl", func(c *Config) { c.Notifications.TTL = 0 }},
		{"zero export delay", func(c *Config) { c.Export.Delay = 0 }},
		{"no sweep schedule", func(c *Config) { c.Notifications.SweepSchedule = "" }},
		{"no revenue reference", func(c *Config) { c.Analytics.RevenueReference = 0 }},
		{"mongo without db", func(c *Config) { c.MongoDB.URI = "mongodb://localhost"; c.MongoDB.DBName = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
