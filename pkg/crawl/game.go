package crawl

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus tracks a game record through asynchronous generation.
type GameStatus string

const (
	// GameStatusPending means generation has been requested but has not
	// finished. Pending records expire if never completed.
	GameStatusPending  GameStatus = "pending"
	GameStatusComplete GameStatus = "complete"
	GameStatusFailed   GameStatus = "failed"
)

// Game is the persisted record of one generation: the request, its
// outcome, and the generated content once available.
type Game struct {
	ID       uuid.UUID         `json:"id"`
	Request  GenerationRequest `json:"request"`
	Provider string            `json:"provider,omitempty"`
	Status   GameStatus        `json:"status"`

	// FailureKind holds the terminal error kind for failed games.
	FailureKind string `json:"failure_kind,omitempty"`

	Response *GeneratedResponse `json:"response,omitempty"`

	// Route is an advisory walking estimate for the generated stops.
	Route *RouteEstimate `json:"route,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RouteEstimate is a best-effort walking estimate over the stop sequence.
// Valid is false when the figures are heuristic rather than measured.
type RouteEstimate struct {
	Valid        bool     `json:"valid"`
	TotalMeters  float64  `json:"total_meters"`
	TotalMinutes int      `json:"total_minutes"`
	Warnings     []string `json:"warnings,omitempty"`
}

// NewGame creates a pending game record for a request.
func NewGame(req GenerationRequest, provider string) *Game {
	now := time.Now().UTC()
	return &Game{
		ID:        uuid.New(),
		Request:   req,
		Provider:  provider,
		Status:    GameStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
