package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"smart-parking/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

type Config struct {
	Port             string
	Environment      string
	OTelServiceName  string
	OTelEndpoint     string
	LogLevel         string
	LogDir           string
	DefaultCurrency  string
	SnapshotSchedule string
	ShutdownTimeout  time.Duration
}

var defaults = map[string]string{
	"APP_PORT":                    "8080",
	"APP_ENV":                     "development",
	"OTEL_SERVICE_NAME":           "smart-parking",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:4318",
	"LOG_LEVEL":                   "info",
	"LOG_DIR":                     "logs",
	"DEFAULT_CURRENCY":            "INR",
	"OCCUPANCY_SNAPSHOT_SCHEDULE": "@every 1m",
	"SHUTDOWN_TIMEOUT":            defaultShutdownTimeout.String(),
}

// Load reads an optional .env file into the environment, then resolves every
// key from the environment with the defaults above. A variable that is set
// but empty wins over its default.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warnf(context.Background(), "could not load .env file: %v", err)
	}

	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Config{
		Port:             v.GetString("APP_PORT"),
		Environment:      v.GetString("APP_ENV"),
		OTelServiceName:  v.GetString("OTEL_SERVICE_NAME"),
		OTelEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogDir:           v.GetString("LOG_DIR"),
		DefaultCurrency:  v.GetString("DEFAULT_CURRENCY"),
		SnapshotSchedule: v.GetString("OCCUPANCY_SNAPSHOT_SCHEDULE"),
		ShutdownTimeout:  parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), defaultShutdownTimeout),
	}
}

// parseDuration accepts a Go duration string or a plain number of seconds.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
