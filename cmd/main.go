package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/chain-router/config"
	"github.com/angeloszaimis/chain-router/internal/handler"
	"github.com/angeloszaimis/chain-router/internal/httpserver"
	"github.com/angeloszaimis/chain-router/internal/metrics"
	"github.com/angeloszaimis/chain-router/internal/router"
	"github.com/angeloszaimis/chain-router/internal/rule"
	"github.com/angeloszaimis/chain-router/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)
	collector.Start(collectorCtx)

	rt, err := buildRouter(cfg.Chains, log, collector)
	if err != nil {
		log.Error("Failed to build chains", slog.Any("err", err))
		os.Exit(1)
	}

	routeHandler := handler.NewRouteHandler(log, rt)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(routeHandler, collector),
		httpserver.WithTimeouts(
			config.Duration(cfg.Server.ReadTimeout, httpserver.DefaultReadTimeout),
			config.Duration(cfg.Server.WriteTimeout, httpserver.DefaultWriteTimeout),
			0,
		),
		httpserver.WithShutdownTimeout(config.Duration(cfg.Server.ShutdownTimeout, httpserver.DefaultShutdownTimeout)),
	)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Chain router listening",
		slog.String("address", cfg.Server.Address),
		slog.Int("chains", len(cfg.Chains)))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting chain router", slog.Any("err", err))
			stopCollector()
			os.Exit(1)
		}
	}

	stopCollector()
	select {
	case <-collector.Done():
	case <-time.After(time.Second):
		log.Warn("Metrics collector did not drain in time")
	}
}

// buildRouter builds every configured chain, in configuration order, and
// registers it under its name.
func buildRouter(chains []config.ChainConfig, log *slog.Logger, collector *metrics.Collector) (*router.Router, error) {
	rt := router.New(log, collector)

	for _, cc := range chains {
		c, err := rule.BuildChain(ruleSpecs(cc.Handlers), log.With(slog.String("chain", cc.Name)))
		if err != nil {
			return nil, err
		}

		if err := rt.Register(cc.Name, c); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

func ruleSpecs(handlers []config.HandlerConfig) []rule.Spec {
	specs := make([]rule.Spec, len(handlers))
	for i, h := range handlers {
		specs[i] = rule.Spec{
			Name: h.Name,
			Kind: rule.Kind(h.Kind),
			Min:  h.Min,
			Max:  h.Max,
		}
	}
	return specs
}
