// Package api exposes the quiz over HTTP and WebSocket.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/repository"
	"github.com/rajaryan190/world-map/internal/service"
)

// Handler serves the game API.
type Handler struct {
	games          GameService
	leaderboard    LeaderboardService
	atlas          MapIndex
	logger         *zap.Logger
	originPatterns []string
	requestTimeout time.Duration
}

// NewHandler creates a new Handler. atlas may be nil when no map is loaded.
func NewHandler(
	games GameService,
	leaderboard LeaderboardService,
	atlas MapIndex,
	logger *zap.Logger,
	originPatterns []string,
	requestTimeout time.Duration,
) *Handler {
	return &Handler{
		games:          games,
		leaderboard:    leaderboard,
		atlas:          atlas,
		logger:         logger,
		originPatterns: originPatterns,
		requestTimeout: requestTimeout,
	}
}

// NewRouter builds the chi router with global middleware and all routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(h.originPatterns))

	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		// The socket lives outside the timeout group.
		r.Get("/games/{id}/ws", h.GameSocket)

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(chiMiddleware.Timeout(h.requestTimeout))
			}

			r.Post("/games", h.CreateGame)
			r.Get("/games/{id}", h.GetGame)
			r.Delete("/games/{id}", h.EndGame)
			r.Post("/games/{id}/guess", h.Guess)
			r.Post("/games/{id}/hint", h.Hint)
			r.Delete("/games/{id}/hint", h.DismissHint)
			r.Post("/games/{id}/restart", h.Restart)

			r.Get("/leaderboard", h.Leaderboard)
			r.Get("/players/{id}/stats", h.PlayerStats)

			r.Get("/map/countries", h.Countries)
			r.Get("/map/locate", h.Locate)
			r.Get("/map/project", h.Project)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "game_not_found")
	case errors.Is(err, repository.ErrPlayerNotFound):
		Error(w, http.StatusNotFound, "player_not_found")
	case errors.Is(err, service.ErrNoCountryAtPoint):
		Error(w, http.StatusUnprocessableEntity, "no_country_at_point")
	case errors.Is(err, repository.ErrEmptyDataset):
		Error(w, http.StatusServiceUnavailable, "no_landmarks")
	default:
		h.logger.Error("request failed",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		Error(w, http.StatusInternalServerError, "internal_error")
	}
}
