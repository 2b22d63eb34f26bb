package config

import (
	"os"
	"strconv"
	"time"

	"adept/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI     AIConfig
	Server ServerConfig
	Store  StoreConfig
}

// AIConfig holds generative service settings.
//
// An empty APIKey is legal at startup: the refiner surfaces a
// MISSING_CREDENTIAL error per call instead, so the rest of the app
// (planner, exports) keeps working without a key.
type AIConfig struct {
	APIKey        string
	BaseURL       string
	FlashModel    string // question generation, fast
	ThinkingModel string // specification generation when deep analysis is requested
	ThinkingBudget int   // token budget for the thinking model
	UseThinking   bool
	Language      string // output language directive for generated documents
	Timeout       time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StoreConfig selects the project persistence backend
type StoreConfig struct {
	DatabaseURL string // postgres when set
	DataFile    string // JSON file store otherwise
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:     loadAIConfig(),
		Server: loadServerConfig(),
		Store:  loadStoreConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadAIConfig() AIConfig {
	return AIConfig{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		BaseURL:        getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		FlashModel:     getEnvOrDefault("GEMINI_MODEL_FLASH", "gemini-2.5-flash"),
		ThinkingModel:  getEnvOrDefault("GEMINI_MODEL_THINKING", "gemini-3-pro-preview"),
		ThinkingBudget: getEnvIntOrDefault("GEMINI_THINKING_BUDGET", 32768),
		UseThinking:    getEnvBoolOrDefault("GEMINI_USE_THINKING", false),
		Language:       getEnvOrDefault("SPEC_LANGUAGE", "Czech"),
		Timeout:        getEnvDurationOrDefault("GEMINI_TIMEOUT", 120*time.Second),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataFile:    getEnvOrDefault("DATA_FILE", "./data/projects.json"),
	}
}

func validateConfig(config *Config) error {
	if config.AI.BaseURL == "" {
		return errors.ConfigInvalid("GEMINI_BASE_URL cannot be empty")
	}
	if config.AI.FlashModel == "" || config.AI.ThinkingModel == "" {
		return errors.ConfigInvalid("generative model names cannot be empty")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("GEMINI_TIMEOUT must be positive")
	}
	if config.Store.DatabaseURL == "" && config.Store.DataFile == "" {
		return errors.ConfigInvalid("either DATABASE_URL or DATA_FILE is required")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
