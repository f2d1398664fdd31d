package di

import (
	"semnet/application/ports"
	"semnet/application/services"
	"semnet/infrastructure/config"
	"semnet/infrastructure/observability"
	"semnet/interfaces/http/rest"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	LogLevel     zap.AtomicLevel
	Presets      ports.PresetRepository
	Publisher    ports.EventPublisher
	Metrics      *observability.Collector
	Tracing      *observability.TracerProvider
	GraphService *services.GraphService
	Router       *rest.Router
}
