// Package worker consumes generation jobs from the queue and runs the
// generation pipeline, persisting the outcome on the game record.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	queuePkg "github.com/jwebster45206/crawl-engine/pkg/queue"
	"github.com/jwebster45206/crawl-engine/pkg/route"
)

const (
	workerTimeout = 5 * time.Second

	// gameLockTTL bounds how long a crashed worker can hold a lock.
	gameLockTTL = 10 * time.Minute
)

// Worker processes generation jobs from the queue
type Worker struct {
	id          string
	queue       *queue.GenerationQueue
	gen         *generator.Generator
	storage     services.Storage
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(genQueue *queue.GenerationQueue, gen *generator.Generator, storage services.Storage, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       genQueue,
		gen:         gen,
		storage:     storage,
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing jobs from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextJob(); err != nil {
				w.log.Error("Error processing job", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextJob pulls the next job from the queue and processes it
func (w *Worker) processNextJob() error {
	// Block waiting for next job (timeout after 5 seconds to check for shutdown)
	ctx, cancel := context.WithTimeout(w.ctx, workerTimeout)
	defer cancel()

	job, err := w.queue.DequeueBlocking(ctx, workerTimeout)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("failed to dequeue job: %w", err)
	}

	if job == nil {
		// Queue is empty or timeout occurred - this is normal
		return nil
	}

	w.log.Info("Received job from queue",
		"worker_id", w.id,
		"job_id", job.JobID,
		"type", job.Type,
		"game_id", job.GameID.String(),
	)

	// Try to acquire game lock
	locked, err := w.acquireGameLock(job.GameID)
	if err != nil {
		return fmt.Errorf("failed to acquire game lock: %w", err)
	}
	if !locked {
		// Another worker is processing this game
		// Re-queue at the end and try next job
		w.log.Info("Game already locked, re-queueing job",
			"worker_id", w.id,
			"job_id", job.JobID,
			"game_id", job.GameID.String(),
		)
		if err := w.queue.Enqueue(w.ctx, job); err != nil {
			return fmt.Errorf("failed to re-queue job: %w", err)
		}
		return nil
	}

	defer w.releaseGameLock(job.GameID)
	return w.processJob(job)
}

// acquireGameLock attempts to acquire a lock for a game
// Returns true if lock was acquired, false if already locked
func (w *Worker) acquireGameLock(gameID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("game-lock:%s", gameID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, gameLockTTL).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

// releaseGameLock releases the lock for a game
func (w *Worker) releaseGameLock(gameID uuid.UUID) {
	lockKey := fmt.Sprintf("game-lock:%s", gameID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release game lock", "error", err, "game_id", gameID.String())
	}
}

// processJob runs the generation pipeline for one job and records the
// outcome on the game.
func (w *Worker) processJob(job *queuePkg.Job) error {
	if job.Type != queuePkg.JobTypeGenerate {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	start := time.Now()

	game, err := w.storage.LoadGame(w.ctx, job.GameID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}
	if game == nil {
		// Pending record expired before a worker got to it. Nothing to
		// attach a result to, so drop the job.
		w.log.Warn("Game record missing, dropping job",
			"worker_id", w.id,
			"job_id", job.JobID,
			"game_id", job.GameID.String(),
		)
		return nil
	}

	refStops, err := w.storage.GetReferenceStops(w.ctx, job.Request.City)
	if err != nil && !errors.Is(err, services.ErrCityUnsupported) {
		w.log.Warn("Reference stop lookup failed, continuing without",
			"error", err, "city", job.Request.City)
	}

	resp, genErr := w.gen.GenerateGame(w.ctx, job.Request, refStops)
	if genErr != nil {
		game.Status = crawl.GameStatusFailed
		var ge *generator.GenerationError
		if errors.As(genErr, &ge) {
			game.FailureKind = string(ge.Kind)
		} else {
			game.FailureKind = string(generator.KindUnknown)
		}

		if err := w.storage.SaveGame(w.ctx, game); err != nil {
			return fmt.Errorf("failed to save failed game: %w", err)
		}

		w.log.Warn("Generation job failed",
			"worker_id", w.id,
			"job_id", job.JobID,
			"game_id", job.GameID.String(),
			"failure_kind", game.FailureKind,
			"error", genErr,
		)
		return nil
	}

	game.Status = crawl.GameStatusComplete
	game.Response = resp

	if est, err := route.EstimateForResponse(w.ctx, resp, refStops, job.Request.City); err != nil {
		w.log.Warn("Route estimate failed", "error", err, "game_id", job.GameID.String())
	} else {
		game.Route = est
	}

	if err := w.storage.SaveGame(w.ctx, game); err != nil {
		return fmt.Errorf("failed to save completed game: %w", err)
	}

	w.log.Info("Generation job completed",
		"worker_id", w.id,
		"job_id", job.JobID,
		"game_id", job.GameID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
