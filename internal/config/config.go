package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Commerce CommerceConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// CommerceConfig carries platform-wide defaults applied to newly created stores.
// Each store can override them in its own settings.
type CommerceConfig struct {
	DefaultCurrency       string
	DefaultTaxRate        float64
	FlatShippingRate      float64
	FreeShippingThreshold float64
}

// Load reads configuration from environment variables, applying defaults
// where a variable is unset.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
			TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		},
		Commerce: CommerceConfig{
			DefaultCurrency:       getEnv("DEFAULT_CURRENCY", "USD"),
			DefaultTaxRate:        getEnvFloat("DEFAULT_TAX_RATE", 0.0),
			FlatShippingRate:      getEnvFloat("FLAT_SHIPPING_RATE", 5.0),
			FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 50.0),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
