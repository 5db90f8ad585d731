package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-menu-cache/config"
	"github.com/goliatone/go-menu-cache/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "menuapi",
	Short:        "Menu, submenu and dish API with a cache-coherent read path",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default ./menuapi.{yaml,json,toml} when present)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and installs the process logger.
func setup() (*config.Config, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger.With(slog.String("service", "menuapi")))

	return cfg, closer, nil
}

// handleSignals returns a context cancelled on SIGINT or SIGTERM.
func handleSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
