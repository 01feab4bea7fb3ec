package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	APIBaseURL     string
	APITimeout     time.Duration
	StatePath      string
	SecretKey      string
	AllowedOrigins string
	LogLevel       string
	Environment    string
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:3000"),
		APITimeout:     time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		StatePath:      getEnv("STATE_PATH", "shopfront.db"),
		SecretKey:      getEnv("SECRET_KEY", "your-secret-key-change-this-in-production"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		Environment:    getEnv("ENV", "production"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
