package services

import (
	"context"
	"sync"
	"time"

	"semnet/application/ports"
	"semnet/domain/config"
	"semnet/domain/core/aggregates"
	"semnet/domain/core/entities"
	"semnet/domain/core/valueobjects"
	"semnet/domain/events"
	"semnet/domain/preset"
	domainservices "semnet/domain/services"
	pkgerrors "semnet/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "semnet/application/services"

// ExportRequest describes a preset export.
// Thumbnail and Palette fall back to the values of the last imported preset
// when nil.
type ExportRequest struct {
	Name      string
	Thumbnail *string
	Palette   []string
}

// InferenceResult is the outcome of one inference pass
type InferenceResult struct {
	NewRelations []domainservices.InferredRelation `json:"new_edges"`
	Conflicts    []domainservices.Conflict         `json:"conflicts"`
}

// GraphService owns the current graph and is the boundary every caller goes
// through. All mutations and inference passes are serialized under one lock;
// snapshots and counts share a read lock.
type GraphService struct {
	mu      sync.RWMutex
	graph   *aggregates.Graph
	engine  *domainservices.InferenceEngine
	meta    preset.Meta
	palette []string

	domainConfig *config.DomainConfig
	presets      ports.PresetRepository
	publisher    ports.EventPublisher
	metrics      ports.Metrics
	logger       *zap.Logger
	tracer       trace.Tracer
}

// NewGraphService creates a service holding an empty graph
func NewGraphService(
	domainConfig *config.DomainConfig,
	presets ports.PresetRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) *GraphService {
	if domainConfig == nil {
		domainConfig = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	graph := aggregates.NewGraphWithConfig(domainConfig)
	return &GraphService{
		graph:        graph,
		engine:       domainservices.NewInferenceEngine(graph),
		palette:      []string{},
		domainConfig: domainConfig,
		presets:      presets,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// AddNode creates a node or merges attributes into an existing one
func (s *GraphService) AddNode(ctx context.Context, name string, attrs entities.NodeAttributes) error {
	if name == "" {
		return pkgerrors.NewValidationError("node name is required")
	}

	s.mu.Lock()
	s.graph.AddNode(name, attrs)
	pending := s.drainEvents()
	s.mu.Unlock()

	s.publish(ctx, pending)
	return nil
}

// RemoveNode deletes a node and its relations. It reports whether the node existed.
func (s *GraphService) RemoveNode(ctx context.Context, name string) bool {
	s.mu.Lock()
	removed := s.graph.RemoveNode(name)
	pending := s.drainEvents()
	s.mu.Unlock()

	s.publish(ctx, pending)
	return removed
}

// AddRelation creates or replaces the manual relation source→target and
// returns the number of relations an inference pass would now create
// (ConflictSentinel when a pass would report conflicts).
func (s *GraphService) AddRelation(ctx context.Context, source, relation, target string) (int, error) {
	if source == "" || target == "" || relation == "" {
		return 0, pkgerrors.NewValidationError("source, relation and target are required")
	}

	s.mu.Lock()
	_, err := s.graph.AddRelation(source, valueobjects.RelationKind(relation), target, entities.RelationAttributes{})
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	count := s.engine.CountPotential()
	pending := s.drainEvents()
	s.mu.Unlock()

	s.publish(ctx, pending)
	return count, nil
}

// RemoveRelation deletes the relation source→target. It reports whether the relation existed.
func (s *GraphService) RemoveRelation(ctx context.Context, source, target string) bool {
	s.mu.Lock()
	removed := s.graph.RemoveRelation(source, target)
	pending := s.drainEvents()
	s.mu.Unlock()

	s.publish(ctx, pending)
	return removed
}

// Snapshot returns a copy of the current graph
func (s *GraphService) Snapshot() aggregates.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Snapshot()
}

// CountPotential returns what the next inference pass would create
func (s *GraphService) CountPotential() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.CountPotential()
}

// RunInference performs one inference pass over the current graph
func (s *GraphService) RunInference(ctx context.Context) InferenceResult {
	ctx, span := s.tracer.Start(ctx, "GraphService.RunInference")
	defer span.End()

	start := time.Now()

	s.mu.Lock()
	newRelations, conflicts := s.engine.Run()
	graphID, version := s.graph.ID().String(), s.graph.Version()
	nodes, relations := s.graph.NodeCount(), s.graph.EdgeCount()
	pending := s.drainEvents()
	s.mu.Unlock()

	duration := time.Since(start)
	pending = append(pending, events.NewInferenceCompleted(graphID, version, len(newRelations), len(conflicts)))

	span.SetAttributes(
		attribute.Int("inference.new_relations", len(newRelations)),
		attribute.Int("inference.conflicts", len(conflicts)),
		attribute.Int("graph.nodes", nodes),
		attribute.Int("graph.relations", relations),
	)

	if s.metrics != nil {
		s.metrics.RecordInference(len(newRelations), len(conflicts), duration)
		s.metrics.RecordGraphSize(nodes, relations)
	}

	s.logger.Info("Inference pass completed",
		zap.String("graphID", graphID),
		zap.Int("newRelations", len(newRelations)),
		zap.Int("conflicts", len(conflicts)),
		zap.Duration("duration", duration),
	)

	s.publish(ctx, pending)
	return InferenceResult{NewRelations: newRelations, Conflicts: conflicts}
}

// Replace swaps the current graph for graph. Palette and meta are kept for
// later exports.
func (s *GraphService) Replace(ctx context.Context, graph *aggregates.Graph, doc *preset.Document, source string) {
	nodes, relations := graph.NodeCount(), graph.EdgeCount()

	s.mu.Lock()
	previous := s.graph.ID().String()
	s.graph = graph
	s.engine = domainservices.NewInferenceEngine(graph)
	if doc != nil {
		s.meta = doc.Meta
		s.palette = doc.Settings.Palette
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordGraphSize(nodes, relations)
	}

	s.publish(ctx, []events.DomainEvent{
		events.NewGraphReplaced(graph.ID().String(), previous, source, nodes, relations),
	})
}

// ListPresets returns the presets available in the store
func (s *GraphService) ListPresets(ctx context.Context) ([]preset.Summary, error) {
	summaries, err := s.presets.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list presets")
	}
	return summaries, nil
}

// ImportPreset loads a stored preset and replaces the current graph with it.
// On any error the current graph is left untouched.
func (s *GraphService) ImportPreset(ctx context.Context, filename string) error {
	ctx, span := s.tracer.Start(ctx, "GraphService.ImportPreset",
		trace.WithAttributes(attribute.String("preset.filename", filename)))
	defer span.End()

	if _, err := preset.Filename(filename); err != nil {
		return err
	}

	doc, err := s.presets.Load(ctx, filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return err
	}

	graph, err := preset.BuildGraph(doc, s.domainConfig)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replay failed")
		s.logger.Warn("Preset could not be replayed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return pkgerrors.Wrapf(err, "preset %s", filename)
	}

	s.logger.Info("Importing preset",
		zap.String("filename", filename),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("relations", graph.EdgeCount()),
	)

	s.Replace(ctx, graph, doc, filename)
	return nil
}

// ExportPreset saves the current graph as a preset and returns its filename
func (s *GraphService) ExportPreset(ctx context.Context, req ExportRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "GraphService.ExportPreset")
	defer span.End()

	filename, err := preset.Filename(req.Name)
	if err != nil {
		return "", err
	}
	name, _ := preset.SanitizeName(req.Name)

	s.mu.RLock()
	snap := s.graph.Snapshot()
	graphID, version := s.graph.ID().String(), s.graph.Version()
	thumbnail, palette := s.meta.Thumbnail, s.palette
	s.mu.RUnlock()

	if req.Thumbnail != nil {
		thumbnail = req.Thumbnail
	}
	if req.Palette != nil {
		palette = req.Palette
	}

	doc := preset.FromSnapshot(snap, name, thumbnail, palette)
	if err := s.presets.Save(ctx, filename, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return "", pkgerrors.Wrap(err, "failed to save preset")
	}

	span.SetAttributes(attribute.String("preset.filename", filename))
	s.publish(ctx, []events.DomainEvent{events.NewPresetSaved(graphID, version, filename, name)})

	s.logger.Info("Preset exported",
		zap.String("filename", filename),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("relations", len(snap.Edges)),
	)
	return filename, nil
}

// LoadDefaultPreset imports the default preset when the store has one.
// It reports whether a preset was loaded.
func (s *GraphService) LoadDefaultPreset(ctx context.Context) (bool, error) {
	err := s.ImportPreset(ctx, preset.DefaultFilename)
	if pkgerrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// drainEvents returns and clears the graph's uncommitted events. Callers hold the write lock.
func (s *GraphService) drainEvents() []events.DomainEvent {
	pending := s.graph.GetUncommittedEvents()
	s.graph.MarkEventsAsCommitted()
	return pending
}

// publish sends events outside the lock. Failures are logged, never returned:
// the graph change has already happened.
func (s *GraphService) publish(ctx context.Context, pending []events.DomainEvent) {
	if s.publisher == nil || len(pending) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}
