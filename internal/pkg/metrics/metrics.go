// internal/pkg/metrics/metrics.go
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Outbound (probe) metrics ---
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Total number of outbound HTTP requests.",
		},
		[]string{"method", "code"},
	)
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Latency of outbound HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
	HTTPClientErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_errors_total",
			Help: "Total number of outbound HTTP requests that failed at the transport level.",
		},
		[]string{"method"},
	)

	// --- Scan pipeline metrics ---
	DocumentsScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deadlinks_documents_scanned_total",
			Help: "Total number of documents read and parsed.",
		},
	)
	DocumentsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deadlinks_documents_skipped_total",
			Help: "Total number of walk entries skipped because they could not be read.",
		},
	)
	LinksClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadlinks_links_classified_total",
			Help: "Total number of extracted links by routing decision.",
		},
		[]string{"route"},
	)
	ExternalProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadlinks_external_probes_total",
			Help: "Total number of external link probes by verdict.",
		},
		[]string{"verdict"},
	)
	DedupHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deadlinks_dedup_hits_total",
			Help: "Total number of external references answered from an earlier probe.",
		},
	)

	// --- Serve mode metrics ---
	ScanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadlinks_scan_requests_total",
			Help: "Total number of scan requests served, by outcome.",
		},
		[]string{"outcome"},
	)
	ScanRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deadlinks_scan_request_duration_seconds",
			Help:    "Duration of scan requests, by outcome.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)

	// --- Runtime metrics ---
	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		HTTPClientRequestsTotal,
		HTTPClientRequestDuration,
		HTTPClientErrorsTotal,
		DocumentsScannedTotal,
		DocumentsSkippedTotal,
		LinksClassifiedTotal,
		ExternalProbesTotal,
		DedupHitsTotal,
		ScanRequestsTotal,
		ScanRequestDuration,
		CPUCount,
	)

	return reg
}

// WriteTextfile dumps the current metric values in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, MetricsRegister())
}
