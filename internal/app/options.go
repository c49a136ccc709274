package service

import (
	"time"

	"github.com/okian/dancercade/internal/adapters/detector/replay"
	"github.com/okian/dancercade/internal/adapters/render"
	"github.com/okian/dancercade/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used by the time-driven detectors and
// the pipeline.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSink adds a view sink next to the recorder and the viewer hub.
func WithSink(sink render.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithRecording plays rec instead of opening replay_path.
func WithRecording(rec *replay.Recording) Option {
	return func(s *Service) {
		s.recording = rec
	}
}
