package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// ErrCityUnsupported is returned when no reference stop data exists for
// a requested city. Generation still proceeds; the provider researches
// venues itself.
var ErrCityUnsupported = errors.New("no reference stops for city")

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// Storage defines the interface for game persistence and reference stop
// lookup.
type Storage interface {
	HealthChecker
	Closer

	// SaveGame saves a game record keyed by its ID. Pending games carry
	// an expiry; completed and failed games are kept.
	SaveGame(ctx context.Context, game *crawl.Game) error

	// LoadGame retrieves a game by ID.
	// Returns nil if the game doesn't exist.
	LoadGame(ctx context.Context, id uuid.UUID) (*crawl.Game, error)

	// DeleteGame removes a game by ID.
	DeleteGame(ctx context.Context, id uuid.UUID) error

	// ListGames returns the IDs of all stored games.
	ListGames(ctx context.Context) ([]uuid.UUID, error)

	// GetReferenceStops returns curated venues for a city, or
	// ErrCityUnsupported when the city has no curated data.
	GetReferenceStops(ctx context.Context, city string) ([]crawl.ReferenceStop, error)
}
