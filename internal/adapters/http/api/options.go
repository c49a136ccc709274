package api

import "github.com/okian/dancercade/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithPublicURL sets the base URL encoded in the join QR code. Without it
// the URL is derived from the request.
func WithPublicURL(url string) Option {
	return func(s *Server) {
		s.publicURL = url
	}
}

// WithMaxBodyBytes caps the size of pushed frame documents.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
