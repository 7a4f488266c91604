package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/service"
)

const wsWriteTimeout = 5 * time.Second

type clientMessage struct {
	Type    string   `json:"type"`
	Country string   `json:"country,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
}

type serverMessage struct {
	Type  string             `json:"type"`
	State *entities.Snapshot `json:"state,omitempty"`
	Error string             `json:"error,omitempty"`
}

// latestSnapshot keeps only the newest state for a slow socket. Snapshots are
// complete, so dropping intermediate ones loses nothing.
type latestSnapshot struct {
	mu    sync.Mutex
	snap  entities.Snapshot
	fresh bool
	seen  bool
	ready chan struct{}
}

func newLatestSnapshot() *latestSnapshot {
	return &latestSnapshot{ready: make(chan struct{}, 1)}
}

func (l *latestSnapshot) put(snap entities.Snapshot) {
	l.mu.Lock()
	l.snap, l.fresh, l.seen = snap, true, true
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// seed stores snap unless a notification already arrived.
func (l *latestSnapshot) seed(snap entities.Snapshot) {
	l.mu.Lock()
	seen := l.seen
	l.mu.Unlock()

	if !seen {
		l.put(snap)
	}
}

func (l *latestSnapshot) take() (entities.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.fresh {
		return entities.Snapshot{}, false
	}
	l.fresh = false
	return l.snap, true
}

// GameSocket streams state for one game and accepts the same actions as the REST
// routes. Every change is pushed as {"type":"state"}; failed actions are answered
// with {"type":"error"}.
func (h *Handler) GameSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.games.Snapshot(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("failed to accept websocket", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer ws.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	latest := newLatestSnapshot()
	unsubscribe, err := h.games.Subscribe(id, latest.put)
	if err != nil {
		_ = ws.Close(websocket.StatusPolicyViolation, "game not found")
		return
	}
	defer unsubscribe()

	snap, err := h.games.Snapshot(ctx, id)
	if err != nil {
		_ = ws.Close(websocket.StatusPolicyViolation, "game not found")
		return
	}
	latest.seed(snap)

	h.logger.Info("websocket connected", zap.String("game_id", id))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		h.pushLoop(ctx, ws, latest)
	}()

	h.readLoop(ctx, ws, id)
	cancel()
	wg.Wait()

	_ = ws.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("websocket closed", zap.String("game_id", id))
}

func (h *Handler) pushLoop(ctx context.Context, ws *websocket.Conn, latest *latestSnapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-latest.ready:
		}

		snap, ok := latest.take()
		if !ok {
			continue
		}
		if err := writeMessage(ctx, ws, serverMessage{Type: "state", State: &snap}); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, id string) {
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				h.logger.Debug("websocket read failed", zap.String("game_id", id), zap.Error(err))
			}
			return
		}

		var err error
		switch msg.Type {
		case "guess":
			_, err = h.applyGuess(ctx, id, guessRequest{Country: msg.Country, Lon: msg.Lon, Lat: msg.Lat})
		case "hint":
			_, err = h.games.Hint(ctx, id)
		case "dismiss":
			_, err = h.games.DismissHint(ctx, id)
		case "restart":
			_, err = h.games.Restart(ctx, id)
		case "ping":
			err = writeMessage(ctx, ws, serverMessage{Type: "pong"})
			if err != nil {
				return
			}
			continue
		default:
			err = errUnknownMessage
		}

		if err == nil {
			continue
		}
		code := socketErrorCode(err)
		if code == "internal_error" {
			h.logger.Error("websocket action failed", zap.String("game_id", id), zap.String("type", msg.Type), zap.Error(err))
		}
		if werr := writeMessage(ctx, ws, serverMessage{Type: "error", Error: code}); werr != nil {
			return
		}
		if errors.Is(err, service.ErrSessionNotFound) {
			return
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

func socketErrorCode(err error) string {
	switch {
	case errors.Is(err, errEmptyGuess):
		return "country_or_point_required"
	case errors.Is(err, errUnknownMessage):
		return "unknown_message_type"
	case errors.Is(err, service.ErrNoCountryAtPoint):
		return "no_country_at_point"
	case errors.Is(err, service.ErrSessionNotFound):
		return "game_not_found"
	}
	return "internal_error"
}

func writeMessage(ctx context.Context, ws *websocket.Conn, msg serverMessage) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, msg)
}
