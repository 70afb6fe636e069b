package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// JobType identifies the type of job in the queue.
type JobType string

const (
	// JobTypeGenerate asks a worker to run the generation pipeline and
	// store the result on the pending game record.
	JobTypeGenerate JobType = "generate"
)

// Job is one unit of asynchronous work.
type Job struct {
	JobID  string    `json:"job_id"`
	Type   JobType   `json:"type"`
	GameID uuid.UUID `json:"game_id"`

	// Request is the generation request for generate jobs.
	Request crawl.GenerationRequest `json:"request"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewGenerateJob creates a generation job for a pending game.
func NewGenerateJob(gameID uuid.UUID, req crawl.GenerationRequest) *Job {
	return &Job{
		JobID:      uuid.New().String(),
		Type:       JobTypeGenerate,
		GameID:     gameID,
		Request:    req,
		EnqueuedAt: time.Now(),
	}
}

// ToJSON converts the job to JSON bytes for Redis.
func (j *Job) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// FromJSON parses a job from JSON bytes.
func FromJSON(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
