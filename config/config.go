package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	PORT        string
	DB_DRIVER   string
	DB_URL      string
	JWT_SECRET  string
	TOKEN_TTL   time.Duration
	CORS_ORIGIN string

	LOCK_TIMEOUT   time.Duration
	NOTIFY_TIMEOUT time.Duration

	LOG_LEVEL  string
	LOG_FORMAT string

	SMTP_HOST          string
	SMTP_PORT          string
	SMTP_EMAIL         string
	SMTP_PASSWORD      string
	ADMIN_NOTIFY_EMAIL string

	STRIPE_SECRET_KEY       string
	STRIPE_PLANS_PRODUCT_ID string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
)

// LoadEnv reads .env when present and fills the package variables. Nothing
// here is fatal; commands call Require for the keys they cannot run without.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	PORT = getEnv("PORT", "8080")
	DB_DRIVER = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	DB_URL = getEnv("DB_URL", "")
	JWT_SECRET = getEnv("JWT_SECRET", "")
	TOKEN_TTL = getDuration("TOKEN_TTL", 72*time.Hour)
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	LOCK_TIMEOUT = getDuration("LOCK_TIMEOUT", 5*time.Second)
	NOTIFY_TIMEOUT = getDuration("NOTIFY_TIMEOUT", 10*time.Second)

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "json")

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_EMAIL = getEnv("SMTP_EMAIL", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	ADMIN_NOTIFY_EMAIL = getEnv("ADMIN_NOTIFY_EMAIL", "")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_PLANS_PRODUCT_ID = getEnv("STRIPE_PLANS_PRODUCT_ID", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "")
	ADMIN_PASSWORD = getEnv("ADMIN_PASSWORD", "")
}

// Require fails when any of keys is unset or empty.
func Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); !ok || v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func StripeEnabled() bool {
	return STRIPE_SECRET_KEY != "" && STRIPE_PLANS_PRODUCT_ID != ""
}

func SMTPEnabled() bool {
	return SMTP_HOST != "" && SMTP_EMAIL != ""
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("fallback", fallback).Msg("invalid duration, using fallback")
		return fallback
	}
	return d
}
