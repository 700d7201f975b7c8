package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	Port                   string
	WebhookSecret          string
	OutboundSigningSecret  string
	RedisURL               string
	NumWorkers             int
	DeliveryTimeoutSeconds int
	SMTPAddr               string
	SMTPFrom               string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		WebhookSecret:          getEnv("WEBHOOK_SECRET", ""),
		OutboundSigningSecret:  getEnv("OUTBOUND_SIGNING_SECRET", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		NumWorkers:             getEnvInt("NUM_WORKERS", 16),
		DeliveryTimeoutSeconds: getEnvInt("DELIVERY_TIMEOUT_SECONDS", 5),
		SMTPAddr:               getEnv("SMTP_ADDR", ""),
		SMTPFrom:               getEnv("SMTP_FROM", "notifications@tessera.dev"),
	}

	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if cfg.NumWorkers < 1 {
		return nil, fmt.Errorf("NUM_WORKERS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
