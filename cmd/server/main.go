package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khairulz/tripmate/internal/api"
	"github.com/khairulz/tripmate/internal/auth"
	"github.com/khairulz/tripmate/internal/config"
	"github.com/khairulz/tripmate/internal/middleware"
	"github.com/khairulz/tripmate/internal/service"
	"github.com/khairulz/tripmate/internal/storage/sqlite"
	"github.com/khairulz/tripmate/internal/telemetry"
	"github.com/khairulz/tripmate/pkg/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	// The storage handle is acquired here and injected down the stack;
	// nothing references it as ambient global state.
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.New(registry)

	logger := slog.Default()
	app := api.New(
		service.NewUserService(store, tokens, logger),
		service.NewExpenseService(store, logger),
		service.NewTodoService(store, logger),
		metrics,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", app.Router())

	// Identity resolution runs first so the request logger can see the
	// resolved principal.
	handler := middleware.ResolveIdentity(tokens)(middleware.Logging()(mux))

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
