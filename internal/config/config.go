package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Supported LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderVenice    = "venice"
	ProviderOllama    = "ollama"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	LLMProvider     string
	ModelName       string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	VeniceAPIKey    string
	OllamaURL       string

	RedisURL string
	DataDir  string
	WorkerID string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderAnthropic)),
		ModelName:       getEnv("MODEL_NAME", ""),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		VeniceAPIKey:    os.Getenv("VENICE_API_KEY"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),
		WorkerID: os.Getenv("WORKER_ID"),
	}

	switch cfg.LLMProvider {
	case ProviderAnthropic, ProviderOpenAI, ProviderVenice, ProviderOllama:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
