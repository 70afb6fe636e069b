package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/crawl-engine/internal/services"
)

func TestHealthHandler_Healthy(t *testing.T) {
	handler := NewHealthHandler(services.NewMockStorage(), "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
	if resp.Service != "crawl-engine" {
		t.Errorf("Service = %q, want crawl-engine", resp.Service)
	}
	if resp.Components["storage"] != "healthy" {
		t.Errorf("Storage component = %v, want healthy", resp.Components["storage"])
	}
	if resp.Components["provider"] != "anthropic" {
		t.Errorf("Provider component = %v, want anthropic", resp.Components["provider"])
	}
}

func TestHealthHandler_StorageDown(t *testing.T) {
	storage := services.NewMockStorage()
	storage.SetPingError(errors.New("connection refused"))
	handler := NewHealthHandler(storage, "anthropic", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", resp.Status)
	}
	if resp.Components["storage"] != "unhealthy" {
		t.Errorf("Storage component = %v, want unhealthy", resp.Components["storage"])
	}
}
