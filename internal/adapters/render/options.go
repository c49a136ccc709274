package render

import "github.com/okian/dancercade/pkg/logger"

// HubOption applies a configuration option to the Hub.
type HubOption func(*Hub)

// WithHubLogger sets a custom logger for the hub.
func WithHubLogger(l logger.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClientBuffer sets how many views may wait for one viewer before new
// views are dropped for it.
func WithClientBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.clientBuffer = n
		}
	}
}
