package main

import (
	"flag"
	"log/slog"
	"os"

	"voicespec/internal/config"
	"voicespec/internal/server"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides VOICESPEC_ADDR)")
	flag.Parse()

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	h, err := server.NewHandler(cfg, logger, nil)
	if err != nil {
		logger.Error("handler init failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg.Addr, server.NewMux(h))
	logger.Info("starting API server", "addr", cfg.Addr, "model", cfg.Model)
	if err := srv.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
