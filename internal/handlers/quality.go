package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	"github.com/jwebster45206/crawl-engine/pkg/quality"
)

// QualityHandler scores the puzzles of a completed game on demand.
// Reports are derived, never persisted.
//
// Routes:
// POST /v1/games/{id}/quality - Score every puzzle in the game
type QualityHandler struct {
	storage services.Storage
	logger  *slog.Logger
}

func NewQualityHandler(storage services.Storage, logger *slog.Logger) *QualityHandler {
	return &QualityHandler{
		storage: storage,
		logger:  logger,
	}
}

// PuzzleQuality pairs one puzzle with its report.
type PuzzleQuality struct {
	Order  int            `json:"order"`
	Title  string         `json:"title"`
	Report quality.Report `json:"report"`
}

type QualityResponse struct {
	GameID  uuid.UUID       `json:"game_id"`
	Overall float64         `json:"overall"`
	Puzzles []PuzzleQuality `json:"puzzles"`
}

func (h *QualityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	// Path shape: /v1/games/{id}/quality
	path := strings.TrimPrefix(r.URL.Path, "/v1/games/")
	idStr := strings.TrimSuffix(path, "/quality")
	idStr = strings.Trim(idStr, "/")

	gameID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	game, err := h.storage.LoadGame(r.Context(), gameID)
	if err != nil {
		h.logger.Error("Failed to load game", "error", err, "game_id", gameID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
		return
	}
	if game == nil {
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
		return
	}
	if game.Status != crawl.GameStatusComplete || game.Response == nil {
		writeError(w, h.logger, http.StatusConflict, "Game has no generated content to score")
		return
	}

	resp := QualityResponse{
		GameID:  game.ID,
		Puzzles: make([]PuzzleQuality, 0, len(game.Response.Puzzles)),
	}

	var sum float64
	for _, p := range game.Response.Puzzles {
		report := quality.Score(p)
		sum += report.Overall
		resp.Puzzles = append(resp.Puzzles, PuzzleQuality{
			Order:  p.Order,
			Title:  p.Title,
			Report: report,
		})
	}
	if len(resp.Puzzles) > 0 {
		resp.Overall = sum / float64(len(resp.Puzzles))
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
