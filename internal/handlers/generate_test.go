package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testRequestBody(t *testing.T, stopCount, puzzlesPerStop int) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      stopCount,
		PuzzlesPerStop: puzzlesPerStop,
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(data)
}

// validRawResponse is a provider response matching stopCount stops with
// puzzlesPerStop puzzles each.
func validRawResponse(t *testing.T, stopCount, puzzlesPerStop int) string {
	t.Helper()

	resp := crawl.GeneratedResponse{
		Story: crawl.GeneratedStory{
			Title:        "The Vanishing Brewer",
			Introduction: crawl.StoryPart{Body: "It begins at {STOP_1}."},
			Resolution:   crawl.StoryPart{Body: "It ends."},
		},
	}
	for i := 1; i <= stopCount; i++ {
		resp.Locations = append(resp.Locations, crawl.GeneratedLocation{
			Order:       i,
			Placeholder: crawl.StopPlaceholder(i),
			Name:        "The Crown Tavern",
			Narrative:   "Something happens at " + crawl.StopPlaceholder(i) + ".",
		})
		for j := 0; j < puzzlesPerStop; j++ {
			resp.Puzzles = append(resp.Puzzles, crawl.GeneratedPuzzle{
				Order:   i,
				Title:   "Cask Count",
				Type:    crawl.TypeMath,
				Content: "Count the casks behind the bar.",
				Answer:  "12",
			})
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	return string(data)
}

func TestGenerateHandler_Success(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetResponses(validRawResponse(t, 2, 1))
	mockStorage := services.NewMockStorage()

	gen := generator.New(mockLLM, testLogger())
	handler := NewGenerateHandler(gen, mockStorage, "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate", testRequestBody(t, 2, 1))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var game crawl.Game
	if err := json.NewDecoder(w.Body).Decode(&game); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if game.Status != crawl.GameStatusComplete {
		t.Errorf("Status = %s, want %s", game.Status, crawl.GameStatusComplete)
	}
	if game.Response == nil || len(game.Response.Locations) != 2 {
		t.Error("Expected generated content on the returned game")
	}
	if game.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", game.Provider)
	}
	if game.Route == nil || game.Route.TotalMeters <= 0 {
		t.Error("Expected a route estimate on the completed game")
	}

	// The game must also be persisted.
	saved, err := mockStorage.LoadGame(req.Context(), game.ID)
	if err != nil || saved == nil {
		t.Errorf("Expected game persisted, got %v, %v", saved, err)
	}
}

func TestGenerateHandler_InvalidJSON(t *testing.T) {
	gen := generator.New(services.NewMockLLM(), testLogger())
	handler := NewGenerateHandler(gen, services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestGenerateHandler_InvalidRequest(t *testing.T) {
	gen := generator.New(services.NewMockLLM(), testLogger())
	handler := NewGenerateHandler(gen, services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate", testRequestBody(t, 0, 1))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if !strings.Contains(errResp.Error, "stop_count") {
		t.Errorf("Expected error naming stop_count, got %q", errResp.Error)
	}
}

func TestGenerateHandler_MethodNotAllowed(t *testing.T) {
	gen := generator.New(services.NewMockLLM(), testLogger())
	handler := NewGenerateHandler(gen, services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/games/generate", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestGenerateHandler_ProviderUnavailable(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetGenerateTextError(&services.ProviderError{
		Kind:    services.ProviderOverloaded,
		Message: "overloaded",
	})

	gen := generator.New(mockLLM, testLogger())
	handler := NewGenerateHandler(gen, services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate", testRequestBody(t, 2, 1))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateHandler_PersistentParseFailure(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetResponses("not json") // repeats for the retry as well

	gen := generator.New(mockLLM, testLogger())
	handler := NewGenerateHandler(gen, services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate", testRequestBody(t, 2, 1))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if mockLLM.CallCount() != 2 {
		t.Errorf("Expected exactly 2 provider calls, got %d", mockLLM.CallCount())
	}
}

func TestAsyncGenerateHandler_QueuesJob(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := queue.NewClient("redis://"+mr.Addr(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create queue client: %v", err)
	}
	defer func() { _ = client.Close() }()

	genQueue := queue.NewGenerationQueue(client)
	mockStorage := services.NewMockStorage()
	handler := NewAsyncGenerateHandler(mockStorage, genQueue, "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate/async", testRequestBody(t, 3, 2))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var game crawl.Game
	if err := json.NewDecoder(w.Body).Decode(&game); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if game.Status != crawl.GameStatusPending {
		t.Errorf("Status = %s, want %s", game.Status, crawl.GameStatusPending)
	}

	job, err := genQueue.Dequeue(req.Context())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job == nil {
		t.Fatal("Expected a queued job")
	}
	if job.GameID != game.ID {
		t.Errorf("Job GameID = %s, want %s", job.GameID, game.ID)
	}
	if job.Request.StopCount != 3 {
		t.Errorf("Job request stop count = %d, want 3", job.Request.StopCount)
	}
}

func TestAsyncGenerateHandler_InvalidRequest(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := queue.NewClient("redis://"+mr.Addr(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create queue client: %v", err)
	}
	defer func() { _ = client.Close() }()

	handler := NewAsyncGenerateHandler(services.NewMockStorage(), queue.NewGenerationQueue(client), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/games/generate/async", testRequestBody(t, 2, 0))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
