package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/dancercade/internal/domain/model"
)

// Player exposes a Recording as the current frame of a live stream. The
// frame shown is chosen by elapsed wall time since the first request, so a
// pipeline ticking faster than the recording sees repeated media times.
type Player struct {
	rec   *Recording
	loop  bool
	clock func() time.Time

	once  sync.Once
	epoch time.Time
}

// NewPlayer creates a Player over rec. rec must be valid.
func NewPlayer(rec *Recording, opts ...Option) *Player {
	p := &Player{rec: rec, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentFrame returns the frame due at the current time. Without looping
// the last frame is held once the recording ends.
func (p *Player) CurrentFrame(context.Context) (model.Frame, bool, error) {
	now := p.clock()
	p.once.Do(func() { p.epoch = now })

	step := p.rec.FrameDuration()
	abs := int64(now.Sub(p.epoch) / step)
	if last := int64(len(p.rec.Frames) - 1); !p.loop && abs > last {
		abs = last
	}
	return model.Frame{
		ID:         fmt.Sprintf("replay-%d", abs),
		MediaTime:  time.Duration(abs) * step,
		CapturedAt: now,
	}, true, nil
}

// DetectForVideo reports the recorded bodies of frame.
func (p *Player) DetectForVideo(_ context.Context, frame model.Frame, _ int64, cb func(model.Detection)) error {
	if frame.MediaTime < 0 {
		return fmt.Errorf("%w: negative media time %s", ErrInvalidRecording, frame.MediaTime)
	}
	idx := int(int64(frame.MediaTime/p.rec.FrameDuration()) % int64(len(p.rec.Frames)))
	cb(model.Detection{Landmarks: p.rec.Frames[idx].Bodies})
	return nil
}

// Len returns the number of recorded frames.
func (p *Player) Len() int { return len(p.rec.Frames) }
