package logging

import (
	"context"
	"errors"
	"testing"

	"semnet/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPublisher struct {
	received []events.DomainEvent
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return s.PublishBatch(ctx, []events.DomainEvent{event})
}

func (s *stubPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	s.received = append(s.received, evts...)
	return s.err
}

func TestPublisher_LogsEveryEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewPublisher(nil, zap.New(core))

	err := p.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewNodeAdded("g", 2, "A"),
		events.NewNodeRemoved("g", 3, "A", 0),
	})

	require.NoError(t, err)
	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, events.TypeNodeAdded, entries[0].ContextMap()["eventType"])
	assert.Equal(t, events.TypeNodeRemoved, entries[1].ContextMap()["eventType"])
}

func TestPublisher_Forwards(t *testing.T) {
	tests := []struct {
		name    string
		nextErr error
	}{
		{name: "success"},
		{name: "failure is returned", nextErr: errors.New("bus down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &stubPublisher{err: tt.nextErr}
			p := NewPublisher(next, zap.NewNop())

			err := p.Publish(context.Background(), events.NewNodeAdded("g", 2, "A"))

			assert.Equal(t, tt.nextErr, err)
			assert.Len(t, next.received, 1)
		})
	}
}

func TestPublisher_EmptyBatchIsNoop(t *testing.T) {
	next := &stubPublisher{}
	p := NewPublisher(next, zap.NewNop())

	require.NoError(t, p.PublishBatch(context.Background(), nil))
	assert.Empty(t, next.received)
}
