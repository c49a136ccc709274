// Package render turns pipeline scenes into drawable frame views and
// delivers them to the last-frame recorder and to connected viewers.
package render

import (
	"context"
	"time"

	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/pose"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/pkg/metrics"
)

// Depth to radius mapping: points closer to the camera (negative z) are
// drawn larger.
const (
	nearZ      = -0.15
	farZ       = 0.1
	nearRadius = 5.0
	farRadius  = 1.0
)

// Sink receives every built view.
type Sink interface {
	Publish(ctx context.Context, view types.FrameView)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, view types.FrameView)

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, view types.FrameView) { f(ctx, view) }

// PointRadius maps depth to a point radius, clamped to the near and far radii.
func PointRadius(z float64) float64 {
	t := (z - nearZ) / (farZ - nearZ)
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return nearRadius + (farRadius-nearRadius)*t
}

// BuildView draws s. Mirrored scenes draw their colored points; other scenes
// draw each body in its color. Connectors are drawn for every raw skeleton.
func BuildView(s model.Scene) types.FrameView {
	view := types.FrameView{
		FrameID:     s.Frame.ID,
		MediaTimeMs: s.Frame.MediaTime.Milliseconds(),
		Mirrored:    s.Mirrored,
		Bodies:      len(s.Skeletons),
		Points:      make([]types.ViewPoint, 0, len(s.Points)+len(s.Bodies)*pose.JointCount),
		Segments:    make([]types.ViewSegment, 0, len(s.Skeletons)*len(s.Connections)),
	}
	for _, p := range s.Points {
		view.Points = append(view.Points, point(p.Landmark, p.Color))
	}
	for _, b := range s.Bodies {
		for _, l := range b.Set {
			view.Points = append(view.Points, point(l, b.Color))
		}
	}
	for _, set := range s.Skeletons {
		for _, c := range s.Connections {
			if c.Start >= len(set) || c.End >= len(set) {
				continue
			}
			a, b := set[c.Start], set[c.End]
			view.Segments = append(view.Segments, types.ViewSegment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y})
		}
	}
	return view
}

func point(l pose.Landmark, c pose.Color) types.ViewPoint {
	return types.ViewPoint{X: l.X, Y: l.Y, Radius: PointRadius(l.Z), Color: string(c)}
}

// Renderer builds views and hands them to sinks.
type Renderer struct {
	sinks []Sink
	clock func() time.Time
}

// New creates a Renderer publishing to sinks in order.
func New(sinks ...Sink) *Renderer {
	return &Renderer{sinks: sinks, clock: time.Now}
}

// Render implements the pipeline renderer contract.
func (r *Renderer) Render(ctx context.Context, s model.Scene) {
	view := BuildView(s)
	view.RenderedAt = r.clock()
	for _, sink := range r.sinks {
		sink.Publish(ctx, view)
	}
	metrics.RecordSceneRendered()
}
