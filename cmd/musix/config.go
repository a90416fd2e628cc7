package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"musix/internal/tablestore"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	Store          tablestore.Config
	Addr           string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	driver := envOrDefault("STORE_DRIVER", "memory")
	var dsn string
	switch driver {
	case "postgres":
		dsn = os.Getenv("DATABASE_URL")
		if dsn == "" {
			return Config{}, fmt.Errorf("DATABASE_URL env var is required when STORE_DRIVER=postgres")
		}
	case "sqlite":
		dsn = envOrDefault("SQLITE_PATH", "musix.db")
	}

	return Config{
		Store:          tablestore.Config{Driver: driver, DSN: dsn},
		Addr:           fmt.Sprintf(":%s", envOrDefault("PORT", "8080")),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
		AllowedOrigins: parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
