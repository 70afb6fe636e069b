package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

func seedGame(t *testing.T, storage *services.MockStorage) *crawl.Game {
	t.Helper()
	game := crawl.NewGame(crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      2,
		PuzzlesPerStop: 1,
	}, "anthropic")
	if err := storage.SaveGame(httptest.NewRequest(http.MethodGet, "/", nil).Context(), game); err != nil {
		t.Fatalf("Failed to seed game: %v", err)
	}
	return game
}

func TestGamesHandler_Read(t *testing.T) {
	storage := services.NewMockStorage()
	game := seedGame(t, storage)
	handler := NewGamesHandler(storage, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games/"+game.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got crawl.Game
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ID != game.ID {
		t.Errorf("ID = %s, want %s", got.ID, game.ID)
	}
}

func TestGamesHandler_ReadNotFound(t *testing.T) {
	handler := NewGamesHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGamesHandler_InvalidID(t *testing.T) {
	handler := NewGamesHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games/not-a-uuid", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestGamesHandler_List(t *testing.T) {
	storage := services.NewMockStorage()
	game := seedGame(t, storage)
	handler := NewGamesHandler(storage, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Games []uuid.UUID `json:"games"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Games) != 1 || resp.Games[0] != game.ID {
		t.Errorf("Games = %v, want [%s]", resp.Games, game.ID)
	}
}

func TestGamesHandler_ListEmpty(t *testing.T) {
	handler := NewGamesHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	// Empty list must serialize as [], not null.
	if body := w.Body.String(); !strings.Contains(body, `"games":[]`) {
		t.Errorf("Expected empty array, got %s", body)
	}
}

func TestGamesHandler_Delete(t *testing.T) {
	storage := services.NewMockStorage()
	game := seedGame(t, storage)
	handler := NewGamesHandler(storage, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/games/"+game.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	loaded, err := storage.LoadGame(req.Context(), game.ID)
	if err != nil || loaded != nil {
		t.Errorf("Expected game deleted, got %v, %v", loaded, err)
	}
}

func TestGamesHandler_DeleteWithoutID(t *testing.T) {
	handler := NewGamesHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/games", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestGamesHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGamesHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPut, "/v1/games", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}
