package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_resolved_total",
			Help: "Total number of lead resolutions by matching channel",
		},
		[]string{"matched_by"},
	)

	leadMerges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_merges_total",
			Help: "Total number of cross-channel lead merges",
		},
	)

	offlineReplays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_replay_mutations_total",
			Help: "Total number of replayed offline mutations by outcome",
		},
		[]string{"result"},
	)

	proposalsSigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "proposals_signed_total",
			Help: "Total number of proposals signed",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadResolution(matchedBy string, merged bool) {
	if matchedBy == "" {
		matchedBy = "none"
	}
	leadsResolved.WithLabelValues(matchedBy).Inc()
	if merged {
		leadMerges.Inc()
	}
}

func RecordReplay(succeeded, failed int) {
	offlineReplays.WithLabelValues("success").Add(float64(succeeded))
	offlineReplays.WithLabelValues("failure").Add(float64(failed))
}

func RecordProposalSigned() {
	proposalsSigned.Inc()
}
