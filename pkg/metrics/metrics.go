package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
	}
}

// Observe records one completed request.
func (h *HTTPMetrics) Observe(method, route, status string, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	h.requests.WithLabelValues(method, route, normalizeLabel(status)).Inc()
}

// LedgerMetrics records inventory ledger activity.
type LedgerMetrics struct {
	movements         *prometheus.CounterVec
	insufficientStock *prometheus.CounterVec
	conflictRetries   prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_movements_total",
		Help: "Recorded stock movements by kind.",
	}, []string{"kind"})
	insufficient := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_insufficient_stock_total",
		Help: "Movements rejected because stock would go negative.",
	}, []string{"kind"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_conflict_retries_total",
		Help: "Movement attempts retried after lock contention.",
	})
	reg.MustRegister(movements, insufficient, retries)
	return &LedgerMetrics{
		movements:         movements,
		insufficientStock: insufficient,
		conflictRetries:   retries,
	}
}

// IncMovement counts one successfully recorded movement.
func (l *LedgerMetrics) IncMovement(kind string) {
	if l == nil || l.movements == nil {
		return
	}
	l.movements.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncInsufficientStock counts one movement rejected for lack of stock.
func (l *LedgerMetrics) IncInsufficientStock(kind string) {
	if l == nil || l.insufficientStock == nil {
		return
	}
	l.insufficientStock.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncConflictRetry counts one retry after lock contention.
func (l *LedgerMetrics) IncConflictRetry() {
	if l == nil || l.conflictRetries == nil {
		return
	}
	l.conflictRetries.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
