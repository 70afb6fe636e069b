package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/crawl-engine/internal/generator"
	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/internal/services/queue"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	queuePkg "github.com/jwebster45206/crawl-engine/pkg/queue"
	"github.com/jwebster45206/crawl-engine/pkg/route"
)

// GenerateHandler runs the generation pipeline synchronously within the
// request.
//
// Routes:
// POST /v1/games/generate - Generate a game and return it
type GenerateHandler struct {
	gen      *generator.Generator
	storage  services.Storage
	provider string
	logger   *slog.Logger
}

func NewGenerateHandler(gen *generator.Generator, storage services.Storage, provider string, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		gen:      gen,
		storage:  storage,
		provider: provider,
		logger:   logger,
	}
}

func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req crawl.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid generation request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	refStops, err := h.storage.GetReferenceStops(r.Context(), req.City)
	if err != nil && !errors.Is(err, services.ErrCityUnsupported) {
		h.logger.Warn("Reference stop lookup failed, continuing without",
			"error", err, "city", req.City)
	}

	resp, genErr := h.gen.GenerateGame(r.Context(), req, refStops)
	if genErr != nil {
		status, msg := statusForGenerationError(genErr)
		h.logger.Warn("Synchronous generation failed", "status", status, "error", genErr)
		writeError(w, h.logger, status, msg)
		return
	}

	game := crawl.NewGame(req, h.provider)
	game.Status = crawl.GameStatusComplete
	game.Response = resp

	if est, err := route.EstimateForResponse(r.Context(), resp, refStops, req.City); err != nil {
		h.logger.Warn("Route estimate failed", "error", err)
	} else {
		game.Route = est
	}

	if err := h.storage.SaveGame(r.Context(), game); err != nil {
		h.logger.Error("Failed to save generated game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, game)
}

// statusForGenerationError maps terminal generation error kinds to HTTP
// status codes.
func statusForGenerationError(err error) (int, string) {
	var genErr *generator.GenerationError
	if !errors.As(err, &genErr) {
		return http.StatusInternalServerError, "Generation failed"
	}

	switch genErr.Kind {
	case generator.KindProviderUnavailable:
		return http.StatusServiceUnavailable, "Generation provider is unavailable, try again later"
	case generator.KindParseFailed, generator.KindValidationFailed:
		return http.StatusUnprocessableEntity, genErr.Error()
	case generator.KindCancelled:
		// The caller has gone away; status is moot but logged anyway.
		return http.StatusInternalServerError, "Generation cancelled"
	default:
		return http.StatusInternalServerError, "Generation failed"
	}
}

// AsyncGenerateHandler accepts a generation request, records a pending
// game, and queues the work for a generation worker.
//
// Routes:
// POST /v1/games/generate/async - Queue generation, return the pending game
type AsyncGenerateHandler struct {
	storage  services.Storage
	queue    *queue.GenerationQueue
	provider string
	logger   *slog.Logger
}

func NewAsyncGenerateHandler(storage services.Storage, genQueue *queue.GenerationQueue, provider string, logger *slog.Logger) *AsyncGenerateHandler {
	return &AsyncGenerateHandler{
		storage:  storage,
		queue:    genQueue,
		provider: provider,
		logger:   logger,
	}
}

func (h *AsyncGenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req crawl.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid generation request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	game := crawl.NewGame(req, h.provider)
	if err := h.storage.SaveGame(r.Context(), game); err != nil {
		h.logger.Error("Failed to save pending game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}

	job := queuePkg.NewGenerateJob(game.ID, req)
	if err := h.queue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("Failed to enqueue generation job", "error", err, "game_id", game.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue generation")
		return
	}

	h.logger.Info("Generation queued",
		"game_id", game.ID,
		"job_id", job.JobID,
		"city", req.City,
		"stop_count", req.StopCount)

	writeJSON(w, h.logger, http.StatusAccepted, game)
}
