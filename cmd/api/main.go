package main

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/crawl-engine/internal/config"
	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/handlers"
	"github.com/jwebster45206/crawl-engine/internal/logger"
	"github.com/jwebster45206/crawl-engine/internal/middleware"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Crawl Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	llmService, err := buildLLMService(cfg, log)
	if err != nil {
		log.Error("Failed to configure LLM provider", "error", err)
		os.Exit(1)
	}

	storage, err := services.NewRedisService(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := storage.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to connect queue client", "error", err)
		os.Exit(1)
	}
	genQueue := queue.NewGenerationQueue(queueClient)

	// Initialize the model on startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	gen := generator.New(llmService, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(storage, cfg.LLMProvider, log)
	mux.Handle("/health", healthHandler)

	generateHandler := handlers.NewGenerateHandler(gen, storage, cfg.LLMProvider, log)
	mux.Handle("/v1/games/generate", generateHandler)

	asyncHandler := handlers.NewAsyncGenerateHandler(storage, genQueue, cfg.LLMProvider, log)
	mux.Handle("/v1/games/generate/async", asyncHandler)

	gamesHandler := handlers.NewGamesHandler(storage, log)
	qualityHandler := handlers.NewQualityHandler(storage, log)
	mux.Handle("/v1/games", gamesHandler)
	mux.HandleFunc("/v1/games/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/quality") {
			qualityHandler.ServeHTTP(w, r)
			return
		}
		gamesHandler.ServeHTTP(w, r)
	})

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout intentionally generous: synchronous generation can
		// take minutes on slow providers.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := queueClient.Close(); err != nil {
		log.Error("Error closing queue connection", "error", err)
	}
	if err := storage.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

// buildLLMService selects the provider adapter from configuration.
func buildLLMService(cfg *config.Config, log *slog.Logger) (services.LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, errMissingKey("ANTHROPIC_API_KEY")
		}
		log.Info("Using Anthropic LLM provider")
		return services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errMissingKey("OPENAI_API_KEY")
		}
		log.Info("Using OpenAI LLM provider")
		return services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName), nil
	case config.ProviderVenice:
		if cfg.VeniceAPIKey == "" {
			return nil, errMissingKey("VENICE_API_KEY")
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

func errMissingKey(name string) error {
	return fmt.Errorf("%s is required for the configured provider", name)
}
