package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angeloszaimis/chain-router/internal/handler"
	"github.com/angeloszaimis/chain-router/internal/metrics"
)

func setupRouter(routeHandler *handler.RouteHandler, metricsCollector *metrics.Collector) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)

	mux.Get("/health", routeHandler.Health)
	mux.Get("/chains", routeHandler.Chains)
	mux.Post("/chains/{chain}/route", routeHandler.Route)
	mux.Get("/metrics", metricsCollector.Handler())
	mux.Method("GET", "/metrics/prometheus", metricsCollector.PrometheusHandler())

	return mux
}
