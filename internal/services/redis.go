package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

const (
	gameKeyPrefix = "game:"

	// pendingGameTTL bounds how long an unfinished game record lives.
	// Completed and failed games are kept without expiry.
	pendingGameTTL = time.Hour
)

// RedisService implements the Storage interface using Redis for game
// records and the local filesystem for curated reference stop data.
type RedisService struct {
	client  *redis.Client
	dataDir string
	logger  *slog.Logger
}

// Ensure RedisService implements Storage interface
var _ Storage = (*RedisService)(nil)

// NewRedisService creates a new Redis service instance
func NewRedisService(redisURL string, dataDir string, logger *slog.Logger) (*RedisService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisService{
		client:  redis.NewClient(opt),
		dataDir: dataDir,
		logger:  logger,
	}, nil
}

func (r *RedisService) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func gameKey(id uuid.UUID) string {
	return gameKeyPrefix + id.String()
}

// SaveGame persists a game record. The record's UpdatedAt is refreshed.
func (r *RedisService) SaveGame(ctx context.Context, game *crawl.Game) error {
	game.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	ttl := time.Duration(0)
	if game.Status == crawl.GameStatusPending {
		ttl = pendingGameTTL
	}

	if err := r.client.Set(ctx, gameKey(game.ID), data, ttl).Err(); err != nil {
		r.logger.Error("Redis SET failed", "game_id", game.ID, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}

	r.logger.Debug("Game saved", "game_id", game.ID, "status", game.Status)
	return nil
}

// LoadGame retrieves a game by ID. Returns nil when the game does not
// exist or its pending record has expired.
func (r *RedisService) LoadGame(ctx context.Context, id uuid.UUID) (*crawl.Game, error) {
	cmd := r.client.Get(ctx, gameKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("Game not found", "game_id", id)
			return nil, nil
		}
		r.logger.Error("Redis GET failed", "game_id", id, "error", err)
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	var game crawl.Game
	if err := json.Unmarshal([]byte(cmd.Val()), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &game, nil
}

func (r *RedisService) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, gameKey(id)).Err(); err != nil {
		r.logger.Error("Redis DEL failed", "game_id", id, "error", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// ListGames scans for game keys and returns their IDs. SCAN keeps the
// operation incremental on large keyspaces.
func (r *RedisService) ListGames(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	iter := r.client.Scan(ctx, 0, gameKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw := strings.TrimPrefix(iter.Val(), gameKeyPrefix)
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Skipping malformed game key", "key", iter.Val())
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return ids, nil
}

// GetReferenceStops loads curated venues for a city from
// <dataDir>/stops/<city-slug>.json.
func (r *RedisService) GetReferenceStops(ctx context.Context, city string) ([]crawl.ReferenceStop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(r.dataDir, "stops", citySlug(city)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCityUnsupported, city)
		}
		return nil, fmt.Errorf("failed to read reference stops: %w", err)
	}

	var stops []crawl.ReferenceStop
	if err := json.Unmarshal(data, &stops); err != nil {
		return nil, fmt.Errorf("failed to parse reference stops for %s: %w", city, err)
	}

	r.logger.Debug("Loaded reference stops", "city", city, "count", len(stops))
	return stops, nil
}

// citySlug normalizes a city name into a filename: lowercased, spaces
// as hyphens.
func citySlug(city string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "-")
}

func (r *RedisService) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

// GetClient returns the underlying Redis client for direct operations
func (r *RedisService) GetClient() *redis.Client {
	return r.client
}

// WaitForConnection blocks until Redis answers pings or retries run out.
func (r *RedisService) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
