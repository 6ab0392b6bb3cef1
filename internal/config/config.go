// Package config loads application configuration from environment variables.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the web client.
type Config struct {
	Env         string        // application environment (dev, test, prod)
	Port        string        // HTTP port to listen on
	APIBaseURL  string        // booking backend, e.g. http://localhost:8080/api
	APITimeout  time.Duration // per-request timeout for backend calls
	RabbitMQURL string        // empty disables activity events
	ActivityLog string        // file the activity consumer appends to
	LogLevel    string
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// LoadDotEnv reads .env into the process environment without overriding
// variables that are already set.  A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads configuration values from the environment.  Every missing
// required variable is reported in the returned error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	cfg := Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		APIBaseURL:  strings.TrimRight(must("API_BASE_URL"), "/"),
		APITimeout:  envDur("API_TIMEOUT", 10*time.Second),
		RabbitMQURL: envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		ActivityLog: envStr("ACTIVITY_LOG_PATH", "logs/booking.log"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return Config{}, errors.New("API_BASE_URL must start with http:// or https://")
	}
	return cfg, nil
}
