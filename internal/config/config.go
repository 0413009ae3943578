package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	BookingAPI BookingAPIConfig
	Fees       FeesConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type SessionConfig struct {
	Secret string
}

type BookingAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type FeesConfig struct {
	BookingFeeRate float64
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
		},
		BookingAPI: BookingAPIConfig{
			BaseURL: getEnv("BOOKING_API_URL", "http://localhost:9000/api"),
			Timeout: time.Duration(getEnvAsInt("BOOKING_API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Fees: FeesConfig{
			BookingFeeRate: getEnvAsFloat("BOOKING_FEE_RATE", 0.10),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
