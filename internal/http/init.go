package http

import (
	"context"
	"time"

	"dead_link_checker/internal/application/config"
	"dead_link_checker/internal/http/handlers"
	"dead_link_checker/internal/pkg/errors"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type Router struct {
	httpRouter  *chi.Mux
	log         *log.Logger
	scanner     handlers.Scanner
	baseDir     string
	scanTimeout time.Duration
}

// Init serves the scan API and the metrics listener until ctx is cancelled, then shuts both down.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig, scanner handlers.Scanner) error {
	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return errors.Wrap(err, `failed to load http config`)
	}

	router := &Router{
		httpRouter:  chi.NewRouter(),
		log:         log,
		scanner:     scanner,
		baseDir:     appCfg.ScanBaseDir,
		scanTimeout: cfg.ScanTimeout(),
	}
	initRoutes(ctx, router)

	// Metrics and pprof share one listener, separate from the API.
	metricsServer := NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log)
	httpServer := NewHttpServer(ctx, cfg, router.httpRouter, log)

	errCh := make(chan error, 2)
	go func() { errCh <- metricsServer.Start() }()
	go func() { errCh <- httpServer.Start() }()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		if serveErr != nil {
			log.WithError(serveErr).Error(`server stopped unexpectedly`)
		}
	}

	if err := httpServer.Stop(); err != nil {
		log.WithError(err).Error(`failed to stop http server`)
	}
	if err := metricsServer.Stop(); err != nil {
		log.WithError(err).Error(`failed to stop metrics server`)
	}

	return serveErr
}
