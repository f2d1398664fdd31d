package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"semnet/infrastructure/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:           "semnet",
		Short:         "Semantic network with is-a relation propagation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (overrides "+config.ConfigPathEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(serveCmd, inferCmd, showCmd, presetsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags on top of the usual configuration sources
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := os.Setenv(config.ConfigPathEnv, configPath); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		if err := os.Setenv("LOG_LEVEL", logLevel); err != nil {
			return nil, err
		}
	}
	return config.LoadConfig()
}

// newCLILogger logs to stderr so command output stays clean. Offline
// commands default to warnings only.
func newCLILogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	level := cfg.Level()
	if logLevel == "" && level < zap.WarnLevel {
		level = zap.WarnLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
