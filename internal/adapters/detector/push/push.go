// Package push adapts detections computed elsewhere, typically by the pose
// model running in the player's browser, to the pipeline's source and
// detector contracts.
//
// Samples arrive through the ingest queue and land in a latest-wins slot:
// the pipeline always sees the newest frame and older pending frames are
// superseded, the same way a live video element only exposes its current
// frame.
package push

import (
	"context"
	"sync"

	"github.com/okian/dancercade/internal/adapters/mq/queue"
	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/pkg/logger"
	"github.com/okian/dancercade/pkg/metrics"
)

// Source is the subset of the ingest queue the detector consumes.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Sample
}

// Detector serves the newest pushed sample.
type Detector struct {
	source Source

	mu     sync.RWMutex
	latest model.Sample
	have   bool

	done   chan struct{}
	logger logger.Logger
}

// New creates a Detector fed by src. Call Run to start consuming.
func New(src Source, opts ...Option) *Detector {
	d := &Detector{source: src, done: make(chan struct{})}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named("push-detector")
	}
	return d
}

// Run consumes samples until ctx ends or the queue closes.
func (d *Detector) Run(ctx context.Context) {
	defer close(d.done)
	for s := range d.source.Dequeue(ctx) {
		d.offer(ctx, s)
	}
}

// Done is closed once Run returns.
func (d *Detector) Done() <-chan struct{} { return d.done }

func (d *Detector) offer(ctx context.Context, s model.Sample) { //nolint:gocritic // hugeParam: Sample is passed by value for channel semantics
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.have && s.Frame.MediaTime < d.latest.Frame.MediaTime {
		metrics.RecordIngestReject("out_of_order")
		d.logger.Debug(ctx, "dropping out of order sample",
			logger.String("frame", s.Frame.ID),
			logger.Duration("media_time", s.Frame.MediaTime),
			logger.Duration("latest", d.latest.Frame.MediaTime),
		)
		return
	}
	d.latest = s
	d.have = true
}

// CurrentFrame returns the newest pushed frame.
func (d *Detector) CurrentFrame(context.Context) (model.Frame, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest.Frame, d.have, nil
}

// DetectForVideo reports the pushed detection of frame. When a newer sample
// has replaced it in the meantime, cb is not called and the pipeline drops
// the frame.
func (d *Detector) DetectForVideo(_ context.Context, frame model.Frame, _ int64, cb func(model.Detection)) error {
	d.mu.RLock()
	latest, have := d.latest, d.have
	d.mu.RUnlock()
	if have && latest.Frame.ID == frame.ID {
		cb(latest.Detection)
	}
	return nil
}
