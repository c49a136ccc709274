package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/dancercade/internal/adapters/mq/worker"
	"github.com/okian/dancercade/internal/pipeline"
	"github.com/okian/dancercade/pkg/logger"
)

// SessionDependencies defines the game and stream controls.
type SessionDependencies interface {
	StartGame(ctx context.Context) error
	StartStream(ctx context.Context) error
	StopStream(ctx context.Context) error
}

// SessionHandler exposes the start game and stream toggles. They mirror the
// buttons of the original game screen.
type SessionHandler struct {
	deps   SessionDependencies
	logger logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies, l logger.Logger) *SessionHandler {
	return &SessionHandler{deps: deps, logger: l}
}

// HandleStartGame handles POST /game/start requests.
func (h *SessionHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, "game_started", h.deps.StartGame)
}

// HandleStartStream handles POST /stream/start requests.
func (h *SessionHandler) HandleStartStream(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, "stream_started", h.deps.StartStream)
}

// HandleStopStream handles POST /stream/stop requests.
func (h *SessionHandler) HandleStopStream(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, "stream_stopped", h.deps.StopStream)
}

func (h *SessionHandler) control(w http.ResponseWriter, r *http.Request, status string, fn func(context.Context) error) {
	const op = "api.session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	err := fn(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ackResponse{Status: status})
	case errors.Is(err, pipeline.ErrGameNotStarted):
		writeError(w, http.StatusConflict, "conflict", WrapKind(op, ErrConflict, err))
	case errors.Is(err, worker.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		h.logger.Error(r.Context(), "session control failed", logger.String("status", status), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
