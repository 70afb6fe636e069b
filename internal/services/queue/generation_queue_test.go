package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	"github.com/jwebster45206/crawl-engine/pkg/queue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

// setupTestRedis creates a miniredis instance and queue client for testing
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client, err := NewClient("redis://"+mr.Addr(), testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func testJob() *queue.Job {
	return queue.NewGenerateJob(uuid.New(), crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      3,
		PuzzlesPerStop: 2,
	})
}

func TestGenerationQueue_EnqueueDequeue(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewGenerationQueue(client)
	ctx := context.Background()

	job := testJob()
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a job, got nil")
	}
	if got.JobID != job.JobID {
		t.Errorf("JobID = %q, want %q", got.JobID, job.JobID)
	}
	if got.GameID != job.GameID {
		t.Errorf("GameID = %s, want %s", got.GameID, job.GameID)
	}
	if got.Type != queue.JobTypeGenerate {
		t.Errorf("Type = %q, want %q", got.Type, queue.JobTypeGenerate)
	}
	if got.Request.StopCount != 3 || got.Request.PuzzlesPerStop != 2 {
		t.Errorf("Request counts not preserved: %+v", got.Request)
	}
}

func TestGenerationQueue_DequeueEmpty(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewGenerationQueue(client)

	job, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job != nil {
		t.Errorf("Expected nil job from empty queue, got %+v", job)
	}
}

func TestGenerationQueue_DequeueBlocking(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewGenerationQueue(client)
	ctx := context.Background()

	job := testJob()
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := q.DequeueBlocking(ctx, time.Second)
	if err != nil {
		t.Fatalf("DequeueBlocking failed: %v", err)
	}
	if got == nil || got.JobID != job.JobID {
		t.Errorf("Expected queued job back, got %+v", got)
	}
}

func TestGenerationQueue_FIFOOrder(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewGenerationQueue(client)
	ctx := context.Background()

	first := testJob()
	second := testJob()
	if err := q.Enqueue(ctx, first); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := q.Enqueue(ctx, second); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.JobID != first.JobID {
		t.Error("Jobs should come back in enqueue order")
	}
}

func TestGenerationQueue_DepthAndClear(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewGenerationQueue(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, testJob()); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Depth failed: %v", err)
	}
	if depth != 3 {
		t.Errorf("Depth = %d, want 3", depth)
	}

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	depth, err = q.Depth(ctx)
	if err != nil {
		t.Fatalf("Depth failed: %v", err)
	}
	if depth != 0 {
		t.Errorf("Depth after clear = %d, want 0", depth)
	}
}
