package render

import (
	"context"
	"sync"

	"github.com/okian/dancercade/internal/domain/types"
)

// Recorder keeps the most recent view.
type Recorder struct {
	mu   sync.RWMutex
	last types.FrameView
	have bool
	n    uint64
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Publish stores view as the latest.
func (r *Recorder) Publish(_ context.Context, view types.FrameView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = view
	r.have = true
	r.n++
}

// Last returns the latest view, false before the first one.
func (r *Recorder) Last() (types.FrameView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.have
}

// Count returns how many views were published.
func (r *Recorder) Count() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.n
}
