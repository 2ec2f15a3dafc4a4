package config

import (
	"errors"
	"os"
	"strconv"
)

// app config, mostly provider and storage related
type Config struct {
	Provider string // LLM provider name, currently only "gemini"
	Port     string

	// Persistence layer for live session state.
	StoreDriver   string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Archive database.
	DatabaseDriver string // "sqlite" or "postgres"
	SQLitePath     string

	// Transcript export job.
	ExportEnabled  bool
	ExportSchedule string // cron expression
	ExportDir      string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		Port:           getEnvOrDefault("PORT", "8080"),
		StoreDriver:    getEnvOrDefault("SESSION_STORE_DRIVER", "memory"),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvIntOrDefault("REDIS_DB", 0),
		DatabaseDriver: getEnvOrDefault("ARCHIVE_DB_DRIVER", "sqlite"),
		SQLitePath:     getEnvOrDefault("ARCHIVE_SQLITE_PATH", "./interviews.db"),
		ExportEnabled:  getEnvOrDefault("TRANSCRIPT_EXPORT_ENABLED", "false") == "true",
		ExportSchedule: getEnvOrDefault("TRANSCRIPT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:      getEnvOrDefault("TRANSCRIPT_EXPORT_DIR", "./exports"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.StoreDriver != "memory" && config.StoreDriver != "redis" {
		return errors.New("unsupported session store driver: " + config.StoreDriver + ". Supported: memory, redis")
	}
	if config.DatabaseDriver != "sqlite" && config.DatabaseDriver != "postgres" {
		return errors.New("unsupported archive database driver: " + config.DatabaseDriver + ". Supported: sqlite, postgres")
	}
	// Gemini validation is handled by gemini.NewConfig()
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
