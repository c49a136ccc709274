// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/pkg/logger"
)

// Pushed frame documents are a few kilobytes; this leaves room for crowds.
const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit pushes a detection sample. Errors wrap queue.ErrFull on
	// backpressure and queue.ErrClosed when pushed frames are not accepted.
	Submit(ctx context.Context, s model.Sample) error

	// LastFrame returns the most recently rendered frame view.
	LastFrame() (types.FrameView, bool)

	// Session controls. StartStream fails with pipeline.ErrGameNotStarted
	// before StartGame.
	StartGame(ctx context.Context) error
	StartStream(ctx context.Context) error
	StopStream(ctx context.Context) error
}

// Server wires HTTP routes for the game API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	framesHandler  *FramesHandler
	sessionHandler *SessionHandler
	viewerHandler  *ViewerHandler

	publicURL    string
	maxBodyBytes int64
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers. viewers serves the
// websocket stream of frame views.
func NewServer(deps Dependencies, statsProvider StatsProvider, viewers http.Handler, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.framesHandler = NewFramesHandler(deps, s.maxBodyBytes, s.logger)
	s.sessionHandler = NewSessionHandler(deps, s.logger)
	s.viewerHandler = NewViewerHandler(viewers, s.publicURL)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/frames", MetricsMiddleware(s.framesHandler.HandlePostFrame, "frames"))
	mux.HandleFunc("/frame", MetricsMiddleware(s.framesHandler.HandleGetFrame, "frame"))
	mux.HandleFunc("/game/start", MetricsMiddleware(s.sessionHandler.HandleStartGame, "game_start"))
	mux.HandleFunc("/stream/start", MetricsMiddleware(s.sessionHandler.HandleStartStream, "stream_start"))
	mux.HandleFunc("/stream/stop", MetricsMiddleware(s.sessionHandler.HandleStopStream, "stream_stop"))
	mux.HandleFunc("/ws", MetricsMiddleware(s.viewerHandler.HandleWebsocket, "ws"))
	mux.HandleFunc("/qr", MetricsMiddleware(s.viewerHandler.HandleQR, "qr"))
	mux.HandleFunc("/viewer", MetricsMiddleware(s.viewerHandler.HandleViewer, "viewer"))
}

type ackResponse struct {
	Status  string `json:"status"`
	FrameID string `json:"frameId,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
