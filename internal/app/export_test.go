package service

import (
	"context"

	"github.com/okian/dancercade/internal/adapters/mq/worker"
)

// WithSendFunc replaces how session commands reach the frame loop.
func WithSendFunc(fn func(context.Context, worker.Command) error) Option {
	return func(s *Service) {
		s.sendCmd = fn
	}
}
