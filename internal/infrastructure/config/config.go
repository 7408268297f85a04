// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresURI string

	// MongoDB
	MongoURI string
	MongoDB  string

	// Fare search provider
	FareAPIBaseURL   string
	FareClientID     string
	FareClientSecret string
	FareCurrency     string

	// Gmail sender
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	AlertFromAddress  string

	// Sweep
	SweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", "postgres://localhost:5432/farewatch"),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "farewatch"),

		FareAPIBaseURL:   getEnv("FARE_API_BASE_URL", "https://test.api.amadeus.com"),
		FareClientID:     getEnv("FARE_CLIENT_ID", ""),
		FareClientSecret: getEnv("FARE_CLIENT_SECRET", ""),
		FareCurrency:     getEnv("FARE_CURRENCY", "USD"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		AlertFromAddress:  getEnv("ALERT_FROM_ADDRESS", "alerts@farewatch.dev"),

		SweepInterval: time.Duration(getEnvAsInt("SWEEP_INTERVAL", 900)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
