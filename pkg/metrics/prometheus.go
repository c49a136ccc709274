// Package metrics provides Prometheus metrics for the dancercade service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default latency buckets in milliseconds, sized for a 60 fps frame budget.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 33, 66} //nolint:gochecknoglobals // shared default

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        bool
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Frame pipeline
	framesTotal    *prometheus.CounterVec
	frameErrors    *prometheus.CounterVec
	tickLatency    prometheus.Histogram
	bodiesDetected prometheus.Gauge
	transforms     prometheus.Counter

	// Ingest queue for pushed detections
	ingestEnqueued prometheus.Counter
	ingestRejected *prometheus.CounterVec
	ingestDepth    prometheus.Gauge

	// Viewers
	viewerClients  prometheus.Gauge
	viewerDropped  prometheus.Counter
	scenesRendered prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "dancercade",
		subsystem:      "pipeline",
		latencyBuckets: defaultLatencyBuckets,
		enabled:        true,
		constLabels:    prometheus.Labels{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesTotal = m.counterVec("frames_total", "Frames handled by the pipeline, by outcome", "outcome")
	m.frameErrors = m.counterVec("frame_errors_total", "Frame-scoped failures, by kind", "kind")
	m.tickLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tick_latency_milliseconds",
		Help:        "Time spent processing one frame",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})
	m.bodiesDetected = m.gauge("bodies_detected", "Bodies in the last detected frame")
	m.transforms = m.counter("transforms_total", "Mirror transforms computed")

	m.ingestEnqueued = m.counter("ingest_enqueued_total", "Pushed samples accepted into the ingest queue")
	m.ingestRejected = m.counterVec("ingest_rejected_total", "Pushed samples rejected, by reason", "reason")
	m.ingestDepth = m.gauge("ingest_queue_depth", "Samples waiting in the ingest queue")

	m.viewerClients = m.gauge("viewer_clients", "Connected websocket viewers")
	m.viewerDropped = m.counter("viewer_dropped_frames_total", "Frame views dropped for slow viewers")
	m.scenesRendered = m.counter("scenes_rendered_total", "Scenes handed to renderers")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests, by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Live goroutines")
}

// RecordFrame counts a frame by pipeline outcome.
func (m *Manager) RecordFrame(outcome string) {
	if m.enabled {
		m.framesTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordFrameError counts a frame-scoped failure.
func (m *Manager) RecordFrameError(kind string) {
	if m.enabled {
		m.frameErrors.WithLabelValues(kind).Inc()
	}
}

// RecordTickLatency observes the processing time of one frame.
func (m *Manager) RecordTickLatency(ms float64) {
	if m.enabled {
		m.tickLatency.Observe(ms)
	}
}

// UpdateBodiesDetected sets the body count of the last frame.
func (m *Manager) UpdateBodiesDetected(n int) {
	if m.enabled {
		m.bodiesDetected.Set(float64(n))
	}
}

// RecordTransform counts a mirror transform.
func (m *Manager) RecordTransform() {
	if m.enabled {
		m.transforms.Inc()
	}
}

// RecordIngestEnqueue counts an accepted pushed sample.
func (m *Manager) RecordIngestEnqueue() {
	if m.enabled {
		m.ingestEnqueued.Inc()
	}
}

// RecordIngestReject counts a rejected pushed sample.
func (m *Manager) RecordIngestReject(reason string) {
	if m.enabled {
		m.ingestRejected.WithLabelValues(reason).Inc()
	}
}

// UpdateIngestQueueDepth sets the ingest queue depth.
func (m *Manager) UpdateIngestQueueDepth(n int) {
	if m.enabled {
		m.ingestDepth.Set(float64(n))
	}
}

// UpdateViewerClients sets the connected viewer count.
func (m *Manager) UpdateViewerClients(n int) {
	if m.enabled {
		m.viewerClients.Set(float64(n))
	}
}

// RecordViewerDrop counts a view not delivered to a slow viewer.
func (m *Manager) RecordViewerDrop() {
	if m.enabled {
		m.viewerDropped.Inc()
	}
}

// RecordSceneRendered counts a scene handed to renderers.
func (m *Manager) RecordSceneRendered() {
	if m.enabled {
		m.scenesRendered.Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(n))
	}
}

// Package-level helpers record on the global manager.

// RecordFrame counts a frame by pipeline outcome.
func RecordFrame(outcome string) { globalManager.RecordFrame(outcome) }

// RecordFrameError counts a frame-scoped failure.
func RecordFrameError(kind string) { globalManager.RecordFrameError(kind) }

// RecordTickLatency observes the processing time of one frame in milliseconds.
func RecordTickLatency(ms float64) { globalManager.RecordTickLatency(ms) }

// UpdateBodiesDetected sets the body count of the last frame.
func UpdateBodiesDetected(n int) { globalManager.UpdateBodiesDetected(n) }

// RecordTransform counts a mirror transform.
func RecordTransform() { globalManager.RecordTransform() }

// RecordIngestEnqueue counts an accepted pushed sample.
func RecordIngestEnqueue() { globalManager.RecordIngestEnqueue() }

// RecordIngestReject counts a rejected pushed sample.
func RecordIngestReject(reason string) { globalManager.RecordIngestReject(reason) }

// UpdateIngestQueueDepth sets the ingest queue depth.
func UpdateIngestQueueDepth(n int) { globalManager.UpdateIngestQueueDepth(n) }

// UpdateViewerClients sets the connected viewer count.
func UpdateViewerClients(n int) { globalManager.UpdateViewerClients(n) }

// RecordViewerDrop counts a view not delivered to a slow viewer.
func RecordViewerDrop() { globalManager.RecordViewerDrop() }

// RecordSceneRendered counts a scene handed to renderers.
func RecordSceneRendered() { globalManager.RecordSceneRendered() }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
