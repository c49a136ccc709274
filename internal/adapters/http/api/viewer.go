package api

import (
	_ "embed"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 320 // mobile-friendly size

//go:embed static/viewer.html
var viewerHTML []byte

// ViewerHandler serves the spectator page, its websocket stream and a QR
// code pointing at the page.
type ViewerHandler struct {
	viewers   http.Handler
	publicURL string
}

// NewViewerHandler creates a new viewer handler. viewers may be nil, in
// which case the stream is unavailable.
func NewViewerHandler(viewers http.Handler, publicURL string) *ViewerHandler {
	return &ViewerHandler{viewers: viewers, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// HandleWebsocket handles GET /ws upgrades.
func (h *ViewerHandler) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	if h.viewers == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind("api.ws", ErrUnavailable))
		return
	}
	h.viewers.ServeHTTP(w, r)
}

// HandleViewer handles GET /viewer requests.
func (h *ViewerHandler) HandleViewer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(viewerHTML)
}

// HandleQR handles GET /qr requests with a PNG linking to the viewer page.
func (h *ViewerHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(h.viewerURL(r), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *ViewerHandler) viewerURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + "/viewer"
	}
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/viewer"
}
