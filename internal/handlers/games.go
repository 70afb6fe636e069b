package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/crawl-engine/internal/services"
)

// GamesHandler serves stored game records.
//
// Routes:
// GET /v1/games         - List stored game IDs
// GET /v1/games/{id}    - Read game by ID
// DELETE /v1/games/{id} - Delete game by ID
type GamesHandler struct {
	storage services.Storage
	logger  *slog.Logger
}

func NewGamesHandler(storage services.Storage, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *GamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/games")
	var gameID uuid.UUID

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		var err error
		gameID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid game ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		if gameID == uuid.Nil {
			h.handleList(w, r)
			return
		}
		h.handleRead(w, r, gameID)

	case http.MethodDelete:
		if gameID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Game ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, gameID)

	default:
		h.logger.Warn("Method not allowed for games endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
	}
}

type listGamesResponse struct {
	Games []uuid.UUID `json:"games"`
}

func (h *GamesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListGames(r.Context())
	if err != nil {
		h.logger.Error("Failed to list games", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list games")
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	writeJSON(w, h.logger, http.StatusOK, listGamesResponse{Games: ids})
}

func (h *GamesHandler) handleRead(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
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

	writeJSON(w, h.logger, http.StatusOK, game)
}

func (h *GamesHandler) handleDelete(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	if err := h.storage.DeleteGame(r.Context(), gameID); err != nil {
		h.logger.Error("Failed to delete game", "error", err, "game_id", gameID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
