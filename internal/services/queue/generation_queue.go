package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/crawl-engine/pkg/queue"
)

// generationsKey is the global list workers consume generation jobs from.
const generationsKey = "generations"

// GenerationQueue manages the queue of asynchronous generation jobs.
type GenerationQueue struct {
	client *Client
}

func NewGenerationQueue(client *Client) *GenerationQueue {
	return &GenerationQueue{
		client: client,
	}
}

// Enqueue adds a job to the end of the generation queue
func (q *GenerationQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	data, err := job.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize job: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, generationsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next job without blocking.
// Returns nil if the queue is empty.
func (q *GenerationQueue) Dequeue(ctx context.Context) (*queue.Job, error) {
	result, err := q.client.rdb.LPop(ctx, generationsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	job, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return job, nil
}

// DequeueBlocking waits up to timeout for the next job.
// Returns nil if the timeout elapses with no job available.
func (q *GenerationQueue) DequeueBlocking(ctx context.Context, timeout time.Duration) (*queue.Job, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, generationsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timed out, queue still empty
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP result length %d", len(result))
	}

	job, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return job, nil
}

// Depth returns the number of jobs waiting in the queue
func (q *GenerationQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, generationsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all queued jobs
func (q *GenerationQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, generationsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}
