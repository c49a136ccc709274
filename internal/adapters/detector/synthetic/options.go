package synthetic

import "time"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithBodies sets how many dancers are generated.
func WithBodies(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.bodies = n
		}
	}
}

// WithFPS sets the generated frame rate.
func WithFPS(fps float64) Option {
	return func(g *Generator) {
		if fps > 0 {
			g.fps = fps
		}
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}
