package render

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/pkg/logger"
	"github.com/okian/dancercade/pkg/metrics"
)

const (
	defaultClientBuffer = 4
	broadcastBuffer     = 4
	writeWait           = 5 * time.Second
	pongWait            = 30 * time.Second
	pingPeriod          = pongWait * 9 / 10
	maxMessageSize      = 512
)

var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // shared upgrader
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan types.FrameView
}

// Hub broadcasts frame views to websocket viewers. A slow viewer loses
// views; it never slows the frame loop down.
type Hub struct {
	clients      map[*client]struct{}
	register     chan *client
	unregister   chan *client
	broadcast    chan types.FrameView
	clientBuffer int

	last    types.FrameView
	hasLast bool
	viewers atomic.Int64

	done   chan struct{}
	logger logger.Logger
}

// NewHub creates a Hub. Call Run before serving viewers.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:      make(map[*client]struct{}),
		register:     make(chan *client),
		unregister:   make(chan *client),
		broadcast:    make(chan types.FrameView, broadcastBuffer),
		clientBuffer: defaultClientBuffer,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("viewer-hub")
	}
	return h
}

// Run owns the client set until ctx ends, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.setViewers(0)
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setViewers(len(h.clients))
			h.logger.Info(ctx, "viewer connected", logger.String("client", c.id), logger.Int("viewers", len(h.clients)))
			if h.hasLast {
				c.send <- h.last
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setViewers(len(h.clients))
				h.logger.Info(ctx, "viewer disconnected", logger.String("client", c.id), logger.Int("viewers", len(h.clients)))
			}
		case v := <-h.broadcast:
			h.last, h.hasLast = v, true
			for c := range h.clients {
				select {
				case c.send <- v:
				default:
					metrics.RecordViewerDrop()
				}
			}
		}
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int { return int(h.viewers.Load()) }

func (h *Hub) setViewers(n int) {
	h.viewers.Store(int64(n))
	metrics.UpdateViewerClients(n)
}

// Publish queues view for every viewer without blocking.
func (h *Hub) Publish(_ context.Context, view types.FrameView) {
	select {
	case h.broadcast <- view:
	default:
		metrics.RecordViewerDrop()
	}
}

// ServeHTTP upgrades the request and streams views to it as JSON messages.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "viewer hub stopped", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan types.FrameView, h.clientBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards viewer input and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case v, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(v); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
