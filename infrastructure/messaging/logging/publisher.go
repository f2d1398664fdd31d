package logging

import (
	"context"
	"time"

	"semnet/application/ports"
	"semnet/domain/events"

	"go.uber.org/zap"
)

// Publisher logs every domain event and forwards it to next, when set.
// With no next publisher it is the local development sink.
type Publisher struct {
	next   ports.EventPublisher
	logger *zap.Logger
}

// NewPublisher creates a logging publisher. next may be nil.
func NewPublisher(next ports.EventPublisher, logger *zap.Logger) *Publisher {
	return &Publisher{next: next, logger: logger}
}

// Publish logs and forwards a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch logs and forwards events. Forwarding errors are returned
// unchanged after being logged.
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	for _, event := range domainEvents {
		p.logger.Debug("Domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("eventID", event.GetEventID()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Int("version", event.GetVersion()),
		)
	}

	if p.next == nil {
		return nil
	}

	start := time.Now()
	err := p.next.PublishBatch(ctx, domainEvents)
	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Failed to forward domain events",
			zap.Int("count", len(domainEvents)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("Domain events forwarded",
		zap.Int("count", len(domainEvents)),
		zap.Duration("duration", duration),
	)
	return nil
}
