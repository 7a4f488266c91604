package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/geo"
	"github.com/rajaryan190/world-map/internal/service"
)

const (
	maxBodyBytes = 1 << 16
	maxZoom      = 22
)

var errEmptyGuess = errors.New("country or point required")

type createGameRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type gameResponse struct {
	GameID string            `json:"gameId"`
	State  entities.Snapshot `json:"state"`
}

// guessRequest carries a country name, a clicked point, or both. The point is
// either lon/lat or Web Mercator pixels x/y at zoom. With only a point the country
// is resolved from the map.
type guessRequest struct {
	Country string   `json:"country"`
	Lon     *float64 `json:"lon"`
	Lat     *float64 `json:"lat"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Zoom    int      `json:"zoom"`
}

func (g guessRequest) point() (orb.Point, bool) {
	switch {
	case g.Lon != nil && g.Lat != nil:
		return orb.Point{*g.Lon, *g.Lat}, true
	case g.X != nil && g.Y != nil && g.Zoom >= 0 && g.Zoom <= maxZoom:
		lat, lon := geo.PixelsToLatLon(*g.X, *g.Y, g.Zoom)
		return orb.Point{lon, lat}, true
	}
	return orb.Point{}, false
}

// CreateGame starts a game. Without a player id a fresh one is issued; an existing
// id replaces that player's game.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_body")
		return
	}

	id := strings.TrimSpace(req.PlayerID)
	if id == "" {
		id = uuid.NewString()
	}

	snap, err := h.games.Start(r.Context(), service.Player{ID: id, Name: strings.TrimSpace(req.PlayerName)})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("game created over http", zap.String("game_id", id))
	JSON(w, http.StatusCreated, gameResponse{GameID: id, State: snap})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.games.Snapshot(r.Context(), id)
	h.respond(w, r, id, snap, err)
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req guessRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_body")
		return
	}

	snap, err := h.applyGuess(r.Context(), id, req)
	if errors.Is(err, errEmptyGuess) {
		Error(w, http.StatusBadRequest, "country_or_point_required")
		return
	}
	h.respond(w, r, id, snap, err)
}

func (h *Handler) Hint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.games.Hint(r.Context(), id)
	h.respond(w, r, id, snap, err)
}

func (h *Handler) DismissHint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.games.DismissHint(r.Context(), id)
	h.respond(w, r, id, snap, err)
}

func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.games.Restart(r.Context(), id)
	h.respond(w, r, id, snap, err)
}

// Leaderboard returns the best players. limit defaults to 10.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			Error(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []entities.LeaderboardEntry{}
	}

	JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leaderboard.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}

// Countries lists the clickable countries of the loaded map.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if h.atlas != nil {
		names = append(names, h.atlas.Names()...)
	}
	JSON(w, http.StatusOK, map[string]any{"countries": names})
}

// Locate resolves a coordinate to the country containing it.
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPoint(r)
	if !ok {
		Error(w, http.StatusBadRequest, "lat_and_lon_required")
		return
	}

	if h.atlas == nil {
		Error(w, http.StatusNotFound, "no_country_at_point")
		return
	}
	name, found := h.atlas.Locate(p)
	if !found {
		Error(w, http.StatusNotFound, "no_country_at_point")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"country": name})
}

// Project converts a coordinate to Web Mercator world pixels at a zoom level.
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPoint(r)
	if !ok {
		Error(w, http.StatusBadRequest, "lat_and_lon_required")
		return
	}

	zoom := 0
	if s := r.URL.Query().Get("zoom"); s != "" {
		z, err := strconv.Atoi(s)
		if err != nil || z < 0 || z > maxZoom {
			Error(w, http.StatusBadRequest, "invalid_zoom")
			return
		}
		zoom = z
	}

	x, y := geo.LatLonToPixels(p.Lat(), p.Lon(), zoom)
	JSON(w, http.StatusOK, map[string]any{"x": x, "y": y, "zoom": zoom})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, id string, snap entities.Snapshot, err error) {
	switch {
	case err == nil:
		JSON(w, http.StatusOK, gameResponse{GameID: id, State: snap})
	case errors.Is(err, service.ErrNoCountryAtPoint):
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": "no_country_at_point",
			"state": snap,
		})
	default:
		h.fail(w, r, err)
	}
}

// applyGuess submits a guess by name when one is given, otherwise by map point.
func (h *Handler) applyGuess(ctx context.Context, id string, req guessRequest) (entities.Snapshot, error) {
	country := strings.TrimSpace(req.Country)
	p, hasPoint := req.point()

	switch {
	case country != "":
		var clicked *orb.Point
		if hasPoint {
			clicked = &p
		}
		return h.games.Guess(ctx, id, country, clicked)
	case hasPoint:
		return h.games.GuessAt(ctx, id, p)
	}
	return entities.Snapshot{}, errEmptyGuess
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func queryPoint(r *http.Request) (orb.Point, bool) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}
