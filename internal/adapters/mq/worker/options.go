package worker

import (
	"time"

	"github.com/okian/dancercade/pkg/logger"
)

// Option applies a configuration option to the FrameLoop.
type Option func(*FrameLoop)

// WithName sets the loop name for identification and logging.
func WithName(name string) Option {
	return func(l *FrameLoop) {
		if name != "" {
			l.name = name
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(lg logger.Logger) Option {
	return func(l *FrameLoop) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithInterval sets the delay between ticks. 16ms approximates a 60 Hz
// display refresh.
func WithInterval(d time.Duration) Option {
	return func(l *FrameLoop) {
		if d > 0 {
			l.interval = d
		}
	}
}
