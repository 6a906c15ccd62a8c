package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voicespec/internal/config"
	"voicespec/internal/server"
)

func newServeCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				cfg.Addr = addr
			}
			h, err := server.NewHandler(cfg, logger, nil)
			if err != nil {
				return err
			}
			srv := server.New(cfg.Addr, server.NewMux(h))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("voicespec serving", "addr", cfg.Addr, "model", cfg.Model)
				return srv.Start()
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				// Session history dies with the process, by contract.
				h.Sessions().Clear()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides VOICESPEC_ADDR)")
	return cmd
}
