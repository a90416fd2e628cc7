package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musix/internal/catalog"
	"musix/internal/httpapi"
	"musix/internal/logging"
	"musix/internal/tablestore"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	logging.SetGlobal(logger)

	store, err := tablestore.Open(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open row store")
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := catalog.New(store, logger, catalog.NewMetrics(registry))
	server := httpapi.New(svc, logger, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	handler := withCORS(cfg.AllowedOrigins, server.Routes())

	logger.Info().Str("addr", cfg.Addr).Str("driver", cfg.Store.Driver).Msg("catalog API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
