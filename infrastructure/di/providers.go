package di

import (
	"context"
	"fmt"

	"semnet/application/ports"
	"semnet/application/services"
	"semnet/infrastructure/config"
	"semnet/infrastructure/messaging/eventbridge"
	"semnet/infrastructure/messaging/logging"
	"semnet/infrastructure/observability"
	"semnet/infrastructure/persistence/badger"
	"semnet/infrastructure/persistence/dynamodb"
	"semnet/infrastructure/persistence/filesystem"
	"semnet/infrastructure/persistence/resilience"
	"semnet/interfaces/http/rest"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogLevel creates the runtime-adjustable log level
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(cfg.Level())
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.With(zap.String("service", "semnet")), nil
}

// ProvideAWSConfig creates AWS configuration. Credentials are resolved
// lazily, so this is cheap when no AWS backend is selected.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvidePresetRepository creates the configured preset store, guarded by a
// circuit breaker when enabled. The cleanup closes embedded databases.
func ProvidePresetRepository(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.PresetRepository, func(), error) {
	var (
		repo    ports.PresetRepository
		cleanup = func() {}
	)

	switch cfg.PresetStore {
	case config.StoreFile:
		fsRepo, err := filesystem.NewPresetRepository(cfg.PresetsDir, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = fsRepo

	case config.StoreBadger:
		db, err := badger.Open(badger.Config{
			Path:       cfg.BadgerDir,
			InMemory:   cfg.BadgerInMemory,
			SyncWrites: true,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = badger.NewPresetRepository(db, logger)
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close badger", zap.Error(err))
			}
		}

	case config.StoreDynamoDB:
		repo = dynamodb.NewPresetRepository(awsdynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)

	default:
		return nil, nil, fmt.Errorf("unknown preset store %q", cfg.PresetStore)
	}

	if cfg.EnableCircuitBreaker {
		repo = resilience.NewPresetRepository(repo, resilience.DefaultBreakerConfig("presets-"+cfg.PresetStore), logger)
	}

	logger.Info("Preset store ready",
		zap.String("store", cfg.PresetStore),
		zap.Bool("circuitBreaker", cfg.EnableCircuitBreaker),
	)
	return repo, cleanup, nil
}

// ProvideEventPublisher creates the event publisher. Events are always
// logged; with the eventbridge publisher they are forwarded to the bus too.
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	var next ports.EventPublisher
	if cfg.Publisher == config.PublisherEventBridge {
		next = eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
	}
	return logging.NewPublisher(next, logger)
}

// ProvideMetrics creates the Prometheus collector, nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("semnet")
}

// ProvideTracing installs the OTLP tracer provider when tracing is enabled.
// Without it spans go to the global no-op provider.
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "semnet",
		Environment: cfg.Environment,
		Endpoint:    cfg.TracingEndpoint,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down tracing", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideGraphService creates the graph service. The default preset is
// loaded when configured; a broken default is logged and skipped.
func ProvideGraphService(
	ctx context.Context,
	cfg *config.Config,
	presets ports.PresetRepository,
	publisher ports.EventPublisher,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.GraphService {
	var metrics ports.Metrics
	if collector != nil {
		metrics = collector
	}

	service := services.NewGraphService(cfg.DomainConfig(), presets, publisher, metrics, logger)

	if cfg.LoadDefaultPreset {
		loaded, err := service.LoadDefaultPreset(ctx)
		switch {
		case err != nil:
			logger.Warn("Default preset could not be loaded", zap.Error(err))
		case loaded:
			logger.Info("Default preset loaded")
		}
	}

	return service
}

// ProvideRouter creates the HTTP router
func ProvideRouter(cfg *config.Config, service *services.GraphService, collector *observability.Collector, logger *zap.Logger) *rest.Router {
	return rest.NewRouter(service, collector, rest.Options{
		EnableCORS:  cfg.EnableCORS,
		CORSOrigins: cfg.CORSOrigins,
		Debug:       cfg.IsDevelopment(),
	}, logger)
}
