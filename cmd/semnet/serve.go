package main

import (
	"semnet/infrastructure/config"
	"semnet/infrastructure/di"
	"semnet/interfaces/http/rest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer container.Logger.Sync()

	if cfg.Source != "" && cfg.IsDevelopment() {
		watcher, err := config.NewWatcher(cfg.Source, cfg, container.LogLevel, container.Logger)
		if err != nil {
			container.Logger.Warn("Configuration hot reloading unavailable", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	server := rest.NewServer(cfg.ServerAddress, container.Router.Setup(), cfg.ShutdownTimeout, container.Logger)
	return server.Run(ctx)
}
