package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/dancercade/internal/adapters/mq/queue"
	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/pkg/logger"
)

// FrameDependencies defines what the frame handlers need.
type FrameDependencies interface {
	Submit(ctx context.Context, s model.Sample) error
	LastFrame() (types.FrameView, bool)
}

// FramesHandler handles pushed detections and last-frame reads.
type FramesHandler struct {
	deps         FrameDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(deps FrameDependencies, maxBodyBytes int64, l logger.Logger) *FramesHandler {
	return &FramesHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: l}
}

// HandlePostFrame handles POST /frames requests.
func (h *FramesHandler) HandlePostFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_frame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req types.FrameSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateSubmission(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	sample := model.Sample{
		Frame: model.Frame{
			ID:         id,
			MediaTime:  time.Duration(*req.MediaTimeMs) * time.Millisecond,
			CapturedAt: time.Now(),
		},
		Detection: model.Detection{Landmarks: req.Bodies},
	}

	err := h.deps.Submit(r.Context(), sample)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", FrameID: id})
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		h.logger.Error(r.Context(), "submit failed", logger.String("frame", id), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// Largest media time that still fits a time.Duration.
const maxMediaTimeMs = math.MaxInt64 / int64(time.Millisecond)

// validateSubmission checks the document shape only. Landmark counts are
// checked per frame by the pipeline, which drops malformed frames.
func validateSubmission(req types.FrameSubmission) error {
	switch {
	case req.MediaTimeMs == nil:
		return errors.New("missing mediaTimeMs")
	case *req.MediaTimeMs < 0:
		return errors.New("mediaTimeMs must not be negative")
	case *req.MediaTimeMs > maxMediaTimeMs:
		return fmt.Errorf("mediaTimeMs must not exceed %d", maxMediaTimeMs)
	}
	for i, body := range req.Bodies {
		if len(body) == 0 {
			return fmt.Errorf("body %d has no landmarks", i)
		}
	}
	return nil
}

// HandleGetFrame handles GET /frame requests.
func (h *FramesHandler) HandleGetFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_frame"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, ok := h.deps.LastFrame()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
