package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const maxBodyBytes = 1 << 10

type gameService interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error

	ApplyMove(ctx context.Context, id string, cell int) (*entity.Session, *entity.GameEnded, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
}

// GameResponse is the state a client renders from.
type GameResponse struct {
	SessionID string            `json:"session_id"`
	Version   uint64            `json:"version"`
	Game      entity.Game       `json:"game"`
	Status    string            `json:"status"`
	Event     *entity.GameEnded `json:"event,omitempty"`
}

type MoveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	gameService gameService
}

func newHandlers(logger *slog.Logger, gameService gameService) *handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameService: gameService,
	}
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameService.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "CreateGame", err)
		return
	}

	writeJSON(w, http.StatusCreated, newGameResponse(session, nil))
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameService.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(session, nil))
}

func (that *handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameService.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "DeleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) ApplyMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		that.writeError(w, "ApplyMove", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		return
	}

	if req.Cell == nil {
		that.writeError(w, "ApplyMove", fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload))
		return
	}

	session, event, err := that.gameService.ApplyMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, "ApplyMove", err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(session, event))
}

func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameService.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "Restart", err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(session, nil))
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func newGameResponse(session *entity.Session, event *entity.GameEnded) GameResponse {
	return GameResponse{
		SessionID: session.ID,
		Version:   session.Version,
		Game:      session.Game,
		Status:    session.Game.Status(),
		Event:     event,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
