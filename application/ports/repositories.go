package ports

import (
	"context"
	"time"

	"semnet/domain/events"
	"semnet/domain/preset"
)

// PresetRepository defines the interface for preset persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PresetRepository interface {
	// List returns a summary of every stored preset, ordered by filename.
	// Unreadable entries are skipped.
	List(ctx context.Context) ([]preset.Summary, error)

	// Load retrieves a preset by filename. Unknown files yield a NOT_FOUND error.
	Load(ctx context.Context, filename string) (*preset.Document, error)

	// Save stores a preset under filename, overwriting any previous one
	Save(ctx context.Context, filename string, doc *preset.Document) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Metrics defines the business metrics recorded by the application layer
type Metrics interface {
	// RecordInference records one inference pass
	RecordInference(newRelations, conflicts int, duration time.Duration)

	// RecordGraphSize records the size of the current graph
	RecordGraphSize(nodes, relations int)
}
