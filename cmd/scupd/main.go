package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scuplab/scupd/internal/alerts"
	"github.com/scuplab/scupd/internal/api"
	"github.com/scuplab/scupd/internal/config"
	"github.com/scuplab/scupd/internal/metrics"
	"github.com/scuplab/scupd/internal/scup"
	"github.com/scuplab/scupd/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("scupd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"history_size", cfg.Engine.HistorySize,
		"use_recovery", cfg.Engine.Recovery(),
		"alert_rules", len(cfg.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Alerts engine — evaluates rules on every computed result and receives
	// the scoring engine's anomaly notifications.
	alertEngine := alerts.New(cfg.Alerts)

	engine := scup.NewEngine(scup.Options{
		HistorySize:  cfg.Engine.HistorySize,
		EventLogSize: cfg.Engine.EventLogSize,
		UseRecovery:  cfg.Engine.Recovery(),
		Anomaly:      alertEngine.Anomaly,
	})
	slog.Info("engine ready", "session_id", engine.SessionID())

	// Hot-reload alert rules and webhooks on config file changes. Engine
	// buffer capacities stay fixed until restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(c *config.Config) {
			alertEngine.SetConfig(c.Alerts)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// WebSocket hub — broadcasts the session report to clients.
	hub := ws.New(engine, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(engine, alertEngine))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", metrics.New(engine))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("scupd shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
