package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-menu-cache/pkg/di"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := handleSignals(context.Background())
		defer cancel()

		container, err := di.NewContainer(ctx, *cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to build service: %w", err)
		}
		defer func() {
			if err := container.Close(); err != nil {
				slog.Error("Failed to close service", slog.Any("error", err))
			}
		}()

		server := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           container.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			slog.Info("HTTP server listening", slog.String("addr", cfg.Server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			slog.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			return err
		}

		stats := container.CachedRepository().Stats()
		slog.Info("HTTP server stopped",
			slog.Uint64("cache_hits", stats.Hits),
			slog.Uint64("cache_misses", stats.Misses),
			slog.Uint64("invalidated_keys", stats.InvalidatedKeys),
			slog.Uint64("invalidation_failures", stats.InvalidationFailures),
		)
		return nil
	},
}
