package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/topi314/checkin-tracker/internal/xerrors"
	"github.com/topi314/checkin-tracker/server"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.toml"
	}

	cfg, err := server.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("path", cfgPath), slog.Any("err", err))
		os.Exit(1)
	}

	setupLogger(cfg.Log)
	slog.Info("Starting checkin-tracker", slog.String("config", cfgPath))
	slog.Debug("Config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}
	defer srv.Close()

	if err = srv.Run(ctx); err != nil {
		for _, e := range xerrors.Unwrap(err) {
			slog.Error("Server stopped with error", slog.Any("err", e))
		}
		return
	}
	slog.Info("Server stopped")
}

func setupLogger(cfg server.LogConfig) {
	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case server.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
