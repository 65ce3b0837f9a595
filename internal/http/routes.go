package http

import (
	"context"

	"dead_link_checker/internal/http/handlers"
	"dead_link_checker/internal/http/middleware"
)

func initRoutes(_ context.Context, r *Router) {
	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))
	// Routes
	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Post(middleware.ScanRoute, handlers.NewScanHandler(r.scanner, r.baseDir, r.scanTimeout, r.log).Handle)
}
