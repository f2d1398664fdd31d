package resilience

import (
	"context"
	"errors"
	"time"

	"semnet/application/ports"
	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the store circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been seen
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default configuration for name
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// PresetRepository guards another preset repository with a circuit breaker.
// While the breaker is open calls fail fast with an UNAVAILABLE error.
// Caller mistakes (unknown preset, bad name or document) never count as failures.
type PresetRepository struct {
	next    ports.PresetRepository
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewPresetRepository wraps next with a circuit breaker
func NewPresetRepository(next ports.PresetRepository, cfg BreakerConfig, logger *zap.Logger) *PresetRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				pkgerrors.IsNotFound(err) ||
				pkgerrors.IsValidation(err)
		},
	})

	return &PresetRepository{next: next, breaker: breaker, logger: logger}
}

// State returns the current breaker state
func (r *PresetRepository) State() gobreaker.State {
	return r.breaker.State()
}

// List delegates to the wrapped repository
func (r *PresetRepository) List(ctx context.Context) ([]preset.Summary, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	summaries, _ := result.([]preset.Summary)
	return summaries, nil
}

// Load delegates to the wrapped repository
func (r *PresetRepository) Load(ctx context.Context, filename string) (*preset.Document, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.next.Load(ctx, filename)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	doc, _ := result.(*preset.Document)
	return doc, nil
}

// Save delegates to the wrapped repository
func (r *PresetRepository) Save(ctx context.Context, filename string, doc *preset.Document) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.next.Save(ctx, filename, doc)
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *PresetRepository) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.logger.Debug("Preset store call rejected by circuit breaker", zap.Error(err))
		return pkgerrors.NewUnavailableError("preset store").WithCause(err)
	}
	return err
}
