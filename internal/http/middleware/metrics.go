package middleware

import (
	"net/http"
	"strconv"
	"time"

	"dead_link_checker/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

const ScanRoute = `/scan`

// Scan outcomes derived from the status the scan handler answers with.
const (
	OutcomeCompleted   = `completed`
	OutcomeRejected    = `rejected`
	OutcomeInterrupted = `interrupted`
	OutcomeFailed      = `failed`
)

// ScanOutcome maps a /scan response status onto its outcome label. The handler answers
// 400 for invalid requests and roots and 503 for interrupted scans.
func ScanOutcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return OutcomeCompleted
	case status == http.StatusServiceUnavailable:
		return OutcomeInterrupted
	case status >= 400 && status < 500:
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// MetricsMiddleware records request counters per route and, for scans, the outcome and duration.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start).Seconds()
		route := routePattern(r)
		code := strconv.Itoa(rec.status)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed)
		if rec.status >= 400 {
			metrics.HTTPRequestErrorsTotal.WithLabelValues(r.Method, route, code).Inc()
		}

		if route == ScanRoute && r.Method == http.MethodPost {
			outcome := ScanOutcome(rec.status)
			metrics.ScanRequestsTotal.WithLabelValues(outcome).Inc()
			metrics.ScanRequestDuration.WithLabelValues(outcome).Observe(elapsed)
		}
	})
}

// routePattern prefers the chi pattern so path parameters do not explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// statusRecorder captures the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
