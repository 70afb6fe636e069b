package main

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/crawl-engine/internal/config"
	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/logger"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
	"github.com/jwebster45206/crawl-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Crawl Engine Worker",
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"redis_url", cfg.RedisURL)

	// Initialize queue service
	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	genQueue := queue.NewGenerationQueue(queueClient)
	log.Info("Queue service initialized successfully")

	// Initialize storage service
	storageService, err := services.NewRedisService(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := storageService.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Initialize LLM service
	llmService, err := buildLLMService(cfg, log)
	if err != nil {
		log.Error("Failed to configure LLM provider", "error", err)
		os.Exit(1)
	}

	// Initialize the model
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}
	log.Info("LLM service initialized successfully", "model", cfg.ModelName)

	gen := generator.New(llmService, log)

	// Separate Redis client for worker locking
	// (separate from queue client to avoid connection conflicts)
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("Failed to parse Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	log.Info("Redis connection established successfully")

	w := worker.New(genQueue, gen, storageService, redisClient, log, cfg.WorkerID)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for jobs...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current job
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}

// buildLLMService selects the provider adapter from configuration.
func buildLLMService(cfg *config.Config, log *slog.Logger) (services.LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the configured provider")
		}
		log.Info("Using Anthropic LLM provider")
		return services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the configured provider")
		}
		log.Info("Using OpenAI LLM provider")
		return services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName), nil
	case config.ProviderVenice:
		if cfg.VeniceAPIKey == "" {
			return nil, fmt.Errorf("VENICE_API_KEY is required for the configured provider")
		}
		log.Info("Using Venice LLM provider")
		return services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName), nil
	case config.ProviderOllama:
		log.Info("Using Ollama LLM provider", "url", cfg.OllamaURL)
		return services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.LLMProvider)
	}
}
