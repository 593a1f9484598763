package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	Seed          SeedConfig
	Notifications NotificationsConfig
	Export        ExportConfig
	Analytics     AnalyticsConfig
	Reporting     ReportingConfig
	MongoDB       MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string
}

// SeedConfig drives the startup unit and promotion generators.
type SeedConfig struct {
	RandomSeed     int64
	DefaultProject string
}

// NotificationsConfig holds toast lifetime and forwarding options.
type NotificationsConfig struct {
	TTL           time.Duration
	SweepSchedule string
	WebhookURL    string
	WebhookToken  string
}

// ExportConfig holds export job settings.
type ExportConfig struct {
	Delay        time.Duration
	CronSchedule string
}

// AnalyticsConfig holds analytics view settings.
type AnalyticsConfig struct {
	LoadingDelay     time.Duration
	RevenueReference float64
}

// ReportingConfig schedules the weekly digest. An empty schedule disables it.
type ReportingConfig struct {
	WeeklySchedule string
}

// MongoDBConfig holds settings for the optional export archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	seed, err := getenvInt("SEED", 42)
	if err != nil {
		return nil, err
	}
	notificationTTL, err := getenvDuration("NOTIFICATION_TTL", 4*time.Second)
	if err != nil {
		return nil, err
	}
	exportDelay, err := getenvDuration("EXPORT_DELAY", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	loadingDelay, err := getenvDuration("ANALYTICS_LOADING_DELAY", 400*time.Millisecond)
	if err != nil {
		return nil, err
	}
	revenueReference, err := getenvFloat("REVENUE_REFERENCE", 500000000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Seed: SeedConfig{
			RandomSeed:     seed,
			DefaultProject: getenvWithDefault("DEFAULT_PROJECT", `ЖК "Гранд Тауэрс"`),
		},
		Notifications: NotificationsConfig{
			TTL:           notificationTTL,
			SweepSchedule: getenvWithDefault("NOTIFICATION_SWEEP_SCHEDULE", "@every 1s"),
			WebhookURL:    os.Getenv("NOTIFY_WEBHOOK_URL"),
			WebhookToken:  os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		},
		Export: ExportConfig{
			Delay:        exportDelay,
			CronSchedule: os.Getenv("EXPORT_CRON_SCHEDULE"),
		},
		Analytics: AnalyticsConfig{
			LoadingDelay:     loadingDelay,
			RevenueReference: revenueReference,
		},
		Reporting: ReportingConfig{
			WeeklySchedule: getenvWithDefault("WEEKLY_REPORT_SCHEDULE", "0 20 * * 5"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "promoboard"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	if c.Seed.DefaultProject == "" {
		return errors.New("DEFAULT_PROJECT must not be empty")
	}

	switch {
	case c.Notifications.TTL <= 0:
		return errors.New("NOTIFICATION_TTL must be positive")
	case c.Export.Delay <= 0:
		return errors.New("EXPORT_DELAY must be positive")
	case c.Analytics.LoadingDelay < 0:
		return errors.New("ANALYTICS_LOADING_DELAY must not be negative")
	}

	if c.Notifications.SweepSchedule == "" {
		return errors.New("NOTIFICATION_SWEEP_SCHEDULE must be provided")
	}

	if c.Analytics.RevenueReference <= 0 {
		return errors.New("REVENUE_REFERENCE must be positive")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
