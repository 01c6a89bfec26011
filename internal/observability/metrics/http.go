package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	auditsCreatedTotal    *prometheus.CounterVec
	auditRefreshTotal     *prometheus.CounterVec
	recapPatchTotal       *prometheus.CounterVec
	versionConflictsTotal *prometheus.CounterVec
	providerFailuresTotal *prometheus.CounterVec
	groupScores           *prometheus.HistogramVec
	pendingProviders      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	auditsCreatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "created_total",
			Help:      "Total audits created.",
		},
		[]string{"service"},
	)
	auditRefreshTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "refresh_total",
			Help:      "Total refresh cycles by outcome.",
		},
		[]string{"service", "outcome"},
	)
	recapPatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "recap_patch_total",
			Help:      "Total recap patches applied.",
		},
		[]string{"service"},
	)
	versionConflictsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "version_conflicts_total",
			Help:      "Total optimistic-lock conflicts by operation.",
		},
		[]string{"service", "operation"},
	)
	providerFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "provider_failures_total",
			Help:      "Total provider fetch failures.",
		},
		[]string{"service", "provider"},
	)
	groupScores := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "group_score",
			Help:      "Distribution of computed tab scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service", "group"},
	)
	pendingProviders := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "audit",
			Name:      "pending_providers",
			Help:      "Pending providers per audit at creation time.",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		auditsCreatedTotal,
		auditRefreshTotal,
		recapPatchTotal,
		versionConflictsTotal,
		providerFailuresTotal,
		groupScores,
		pendingProviders,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		auditsCreatedTotal:    auditsCreatedTotal,
		auditRefreshTotal:     auditRefreshTotal,
		recapPatchTotal:       recapPatchTotal,
		versionConflictsTotal: versionConflictsTotal,
		providerFailuresTotal: providerFailuresTotal,
		groupScores:           groupScores,
		pendingProviders:      pendingProviders,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/audits/"):
		return "/audits/{audit_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAuditCreated(service string, pendingCount int, groupScores map[string]int) {
	m.auditsCreatedTotal.WithLabelValues(service).Inc()
	m.pendingProviders.WithLabelValues(service).Observe(float64(pendingCount))
	for group, score := range groupScores {
		m.groupScores.WithLabelValues(service, group).Observe(float64(score))
	}
}

func (m *HTTPServerMetrics) RecordRefresh(service, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.auditRefreshTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordRecapPatch(service string) {
	m.recapPatchTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordVersionConflict(service, operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.versionConflictsTotal.WithLabelValues(service, operation).Inc()
}

func (m *HTTPServerMetrics) RecordProviderFailure(service, provider string) {
	if provider == "" {
		provider = "unknown"
	}
	m.providerFailuresTotal.WithLabelValues(service, provider).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
