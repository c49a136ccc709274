package pipeline

import (
	"time"

	"github.com/okian/dancercade/internal/domain/pose"
	"github.com/okian/dancercade/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPalette sets the colors used for untransformed bodies.
func WithPalette(palette pose.Palette) Option {
	return func(p *Pipeline) {
		p.palette = palette
	}
}

// WithSingleBodyColoring draws one-body frames in the role color instead of
// the renderer default.
func WithSingleBodyColoring(enabled bool) Option {
	return func(p *Pipeline) {
		p.colorSingle = enabled
	}
}

// WithConnections overrides the skeleton connectivity handed to renderers.
func WithConnections(conns []pose.Connection) Option {
	return func(p *Pipeline) {
		if conns != nil {
			p.connections = conns
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}
