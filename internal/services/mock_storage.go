package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	games     map[uuid.UUID]*crawl.Game
	stops     map[string][]crawl.ReferenceStop
	pingError error
	saveError error

	mu sync.Mutex
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		games: make(map[uuid.UUID]*crawl.Game),
		stops: make(map[string][]crawl.ReferenceStop),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveGame
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetReferenceStops seeds curated stops for a city
func (m *MockStorage) SetReferenceStops(city string, stops []crawl.ReferenceStop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops[city] = stops
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGame mocks saving a game
func (m *MockStorage) SaveGame(ctx context.Context, game *crawl.Game) error {
	if game == nil {
		return errors.New("game cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.games[game.ID] = game
	return nil
}

// LoadGame mocks loading a game
func (m *MockStorage) LoadGame(ctx context.Context, id uuid.UUID) (*crawl.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, exists := m.games[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return game, nil
}

// DeleteGame mocks deleting a game
func (m *MockStorage) DeleteGame(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// ListGames mocks listing stored game IDs
func (m *MockStorage) ListGames(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	return ids, nil
}

// GetReferenceStops mocks curated stop lookup
func (m *MockStorage) GetReferenceStops(ctx context.Context, city string) ([]crawl.ReferenceStop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stops, ok := m.stops[city]
	if !ok {
		return nil, ErrCityUnsupported
	}
	return stops, nil
}
