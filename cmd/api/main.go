package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"semnet/infrastructure/config"
	"semnet/infrastructure/di"
	"semnet/interfaces/http/rest"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()
	defer container.Logger.Sync()

	// Hot reload only makes sense when a file was given
	if cfg.Source != "" && cfg.IsDevelopment() {
		watcher, err := config.NewWatcher(cfg.Source, cfg, container.LogLevel, container.Logger)
		if err != nil {
			container.Logger.Warn("Configuration hot reloading unavailable", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	server := rest.NewServer(cfg.ServerAddress, container.Router.Setup(), cfg.ShutdownTimeout, container.Logger)
	container.Logger.Info("Semnet API starting",
		zap.String("environment", cfg.Environment),
		zap.String("presetStore", cfg.PresetStore),
	)

	if err := server.Run(ctx); err != nil {
		container.Logger.Error("Server failed", zap.Error(err))
		return
	}

	container.Logger.Info("Server stopped")
}
