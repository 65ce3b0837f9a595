package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type MetricsServer struct {
	host    string
	timeout time.Duration
	server  *http.Server
	log     *log.Logger
}

// NewMetricsServer exposes /metrics and the /debug/pprof endpoints on host.
func NewMetricsServer(host string, timeout time.Duration, log *log.Logger) *MetricsServer {
	reg := metrics.MetricsRegister()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &MetricsServer{
		server: &http.Server{
			Addr:              host,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		host:    host,
		timeout: timeout,
		log:     log,
	}
}

func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}

func (m *MetricsServer) Start() error {
	m.log.Info("metrics server starting on port ", m.host)
	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *MetricsServer) Stop() error {
	if m.server == nil {
		return fmt.Errorf("server is not initialized")
	}
	m.log.Info("shutting down metrics server...")

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, `failed to shutdown metrics server`)
	}

	m.log.Info("metrics server exiting")
	return nil
}
