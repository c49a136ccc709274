// Package pipeline runs the per-frame flow: pull the current frame, detect
// bodies, resolve player roles, mirror the limb when two players are present
// and hand the scene to the renderer.
//
// The pipeline keeps no state between frames beyond the caller's State; one
// Tick never overlaps another.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/dancercade/internal/domain/identity"
	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/pose"
	"github.com/okian/dancercade/pkg/logger"
	"github.com/okian/dancercade/pkg/metrics"
)

// Source yields the frame currently shown by the stream. ok is false until
// the first frame exists.
type Source interface {
	CurrentFrame(ctx context.Context) (frame model.Frame, ok bool, err error)
}

// Detector runs pose detection for a frame and reports through cb. An error
// means detection could not be attempted.
type Detector interface {
	DetectForVideo(ctx context.Context, frame model.Frame, timestampMs int64, cb func(model.Detection)) error
}

// Resolver labels the bodies of a frame.
type Resolver interface {
	Resolve(sets []pose.LandmarkSet) ([]identity.Assignment, error)
}

// Transformer mirrors the limb between two labelled bodies.
type Transformer interface {
	Transform(left, right pose.LandmarkSet) ([]pose.ColoredPoint, error)
}

// Renderer draws a scene. Rendering failures are the renderer's concern.
type Renderer interface {
	Render(ctx context.Context, scene model.Scene)
}

// Outcome describes what a Tick did.
type Outcome int

const (
	OutcomeHalted      Outcome = iota // game not started or stream stopped
	OutcomeIdle                       // no frame available yet
	OutcomeStale                      // media time did not advance
	OutcomeDropped                    // frame skipped due to an error
	OutcomeEmpty                      // no bodies, canvas cleared
	OutcomeSingle                     // one body drawn untransformed
	OutcomeMirrored                   // two bodies, limb mirrored
	OutcomeUnsupported                // more than two bodies drawn untransformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHalted:
		return "halted"
	case OutcomeIdle:
		return "idle"
	case OutcomeStale:
		return "stale"
	case OutcomeDropped:
		return "dropped"
	case OutcomeEmpty:
		return "empty"
	case OutcomeSingle:
		return "single"
	case OutcomeMirrored:
		return "mirrored"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Pipeline wires the per-frame collaborators.
type Pipeline struct {
	source      Source
	detector    Detector
	resolver    Resolver
	transformer Transformer
	renderer    Renderer

	palette     pose.Palette
	colorSingle bool
	connections []pose.Connection
	clock       func() time.Time
	epoch       time.Time

	inFlight atomic.Bool
	logger   logger.Logger
}

// New creates a Pipeline over the given collaborators.
func New(source Source, detector Detector, resolver Resolver, transformer Transformer, renderer Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:      source,
		detector:    detector,
		resolver:    resolver,
		transformer: transformer,
		renderer:    renderer,
		palette:     pose.DefaultPalette,
		connections: pose.PoseConnections,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("pipeline")
	}
	p.epoch = p.clock()
	return p
}

// Tick processes the current frame if st allows it. Frame-scoped failures are
// returned together with OutcomeDropped; the next Tick starts fresh.
func (p *Pipeline) Tick(ctx context.Context, st *State) (Outcome, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return OutcomeDropped, ErrTickInFlight
	}
	defer p.inFlight.Store(false)

	if !st.Active() {
		return OutcomeHalted, nil
	}

	start := p.clock()
	outcome, err := p.tick(ctx, st)
	metrics.RecordFrame(outcome.String())
	if outcome != OutcomeStale && outcome != OutcomeIdle {
		metrics.RecordTickLatency(float64(p.clock().Sub(start).Microseconds()) / 1000)
	}
	return outcome, err
}

func (p *Pipeline) tick(ctx context.Context, st *State) (Outcome, error) {
	frame, ok, err := p.source.CurrentFrame(ctx)
	if err != nil {
		metrics.RecordFrameError("source")
		return OutcomeDropped, fmt.Errorf("current frame: %w", err)
	}
	if !ok {
		return OutcomeIdle, nil
	}
	if frame.MediaTime == st.LastTimestamp {
		return OutcomeStale, nil
	}
	st.LastTimestamp = frame.MediaTime

	det, err := p.detect(ctx, frame)
	if err != nil {
		return OutcomeDropped, err
	}
	return p.process(ctx, frame, det)
}

// detect runs the detector and collects its callback through a single slot.
// Only the first callback of a call is kept.
func (p *Pipeline) detect(ctx context.Context, frame model.Frame) (model.Detection, error) {
	slot := make(chan model.Detection, 1)
	ts := p.clock().Sub(p.epoch).Milliseconds()
	err := p.detector.DetectForVideo(ctx, frame, ts, func(d model.Detection) {
		select {
		case slot <- d:
		default:
		}
	})
	if err != nil {
		metrics.RecordFrameError("detector")
		return model.Detection{}, fmt.Errorf("detect frame %s: %w", frame.ID, err)
	}
	select {
	case d := <-slot:
		return d, nil
	default:
		metrics.RecordFrameError("no_detection")
		return model.Detection{}, fmt.Errorf("frame %s: %w", frame.ID, ErrNoDetection)
	}
}

func (p *Pipeline) process(ctx context.Context, frame model.Frame, det model.Detection) (Outcome, error) {
	metrics.UpdateBodiesDetected(len(det.Landmarks))

	assignments, err := p.resolver.Resolve(det.Landmarks)
	switch {
	case errors.Is(err, pose.ErrUnsupportedBodyCount):
		metrics.RecordFrameError("unsupported_body_count")
		p.logger.Warn(ctx, "too many bodies, mirroring skipped",
			logger.String("frame", frame.ID),
			logger.Int("bodies", len(det.Landmarks)),
		)
		p.renderer.Render(ctx, p.untransformed(frame, assignments))
		return OutcomeUnsupported, nil
	case err != nil:
		metrics.RecordFrameError("malformed")
		p.logger.Warn(ctx, "dropping malformed frame", logger.String("frame", frame.ID), logger.Error(err))
		return OutcomeDropped, fmt.Errorf("resolve frame %s: %w", frame.ID, err)
	}

	if len(assignments) == 2 {
		points, err := p.transformer.Transform(assignments[0].Set, assignments[1].Set)
		if err != nil {
			metrics.RecordFrameError("malformed")
			p.logger.Warn(ctx, "dropping frame, mirror failed", logger.String("frame", frame.ID), logger.Error(err))
			return OutcomeDropped, fmt.Errorf("mirror frame %s: %w", frame.ID, err)
		}
		metrics.RecordTransform()
		p.renderer.Render(ctx, model.Scene{
			Frame:       frame,
			Mirrored:    true,
			Points:      points,
			Skeletons:   []pose.LandmarkSet{assignments[0].Set, assignments[1].Set},
			Connections: p.connections,
		})
		return OutcomeMirrored, nil
	}

	p.renderer.Render(ctx, p.untransformed(frame, assignments))
	if len(assignments) == 0 {
		return OutcomeEmpty, nil
	}
	return OutcomeSingle, nil
}

// untransformed draws every body as detected. Lone bodies use the renderer
// default color unless single-body coloring is on; crowds always get role
// colors so players can still tell themselves apart.
func (p *Pipeline) untransformed(frame model.Frame, assignments []identity.Assignment) model.Scene {
	scene := model.Scene{Frame: frame, Connections: p.connections}
	for _, a := range assignments {
		var color pose.Color
		if p.colorSingle || len(assignments) > 2 {
			color = p.palette.For(a.Role)
		}
		scene.Bodies = append(scene.Bodies, model.Body{Set: a.Set, Color: color})
		scene.Skeletons = append(scene.Skeletons, a.Set)
	}
	return scene
}
