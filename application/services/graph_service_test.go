package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"semnet/domain/core/entities"
	"semnet/domain/events"
	"semnet/domain/preset"
	domainservices "semnet/domain/services"
	pkgerrors "semnet/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memoryPresets struct {
	mu      sync.Mutex
	docs    map[string]*preset.Document
	saveErr error
}

func newMemoryPresets() *memoryPresets {
	return &memoryPresets{docs: make(map[string]*preset.Document)}
}

func (m *memoryPresets) List(ctx context.Context) ([]preset.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []preset.Summary
	for name, doc := range m.docs {
		out = append(out, doc.Summary(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (m *memoryPresets) Load(ctx context.Context, filename string) (*preset.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[filename]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("preset %s", filename))
	}
	return doc, nil
}

func (m *memoryPresets) Save(ctx context.Context, filename string, doc *preset.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[filename] = doc
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type recordingMetrics struct {
	mu           sync.Mutex
	inferences   int
	newRelations int
	conflicts    int
	nodes        int
	relations    int
}

func (m *recordingMetrics) RecordInference(newRelations, conflicts int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inferences++
	m.newRelations += newRelations
	m.conflicts += conflicts
}

func (m *recordingMetrics) RecordGraphSize(nodes, relations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes, m.relations = nodes, relations
}

type serviceFixture struct {
	service   *GraphService
	presets   *memoryPresets
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		presets:   newMemoryPresets(),
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}
	f.service = NewGraphService(nil, f.presets, f.publisher, f.metrics, zaptest.NewLogger(t))
	return f
}

func (f *serviceFixture) seed(t *testing.T, nodes []string, relations ...[3]string) {
	t.Helper()
	ctx := context.Background()
	for _, n := range nodes {
		require.NoError(t, f.service.AddNode(ctx, n, entities.NodeAttributes{}))
	}
	for _, r := range relations {
		_, err := f.service.AddRelation(ctx, r[0], r[1], r[2])
		require.NoError(t, err)
	}
}

func TestGraphService_AddNode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.service.AddNode(ctx, "", entities.NodeAttributes{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, f.service.AddNode(ctx, "Dog", entities.NodeAttributes{}))
	require.NoError(t, f.service.AddNode(ctx, "Dog", entities.NodeAttributes{}))

	assert.Len(t, f.service.Snapshot().Nodes, 1)
	assert.Equal(t, []string{events.TypeNodeAdded}, f.publisher.types())
}

func TestGraphService_AddRelation(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		relation  string
		target    string
		wantCount int
		checkErr  func(error) bool
	}{
		{name: "propagation pending", source: "B", relation: "likes", target: "C", wantCount: 1},
		{name: "conflict pending", source: "A", relation: "hates", target: "C", wantCount: 0},
		{name: "missing endpoint", source: "B", relation: "likes", target: "Ghost", checkErr: pkgerrors.IsMissingEndpoint},
		{name: "empty relation", source: "A", relation: "", target: "B", checkErr: pkgerrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, []string{"A", "B", "C"}, [3]string{"A", "is-a", "B"})

			count, err := f.service.AddRelation(context.Background(), tt.source, tt.relation, tt.target)

			if tt.checkErr != nil {
				require.Error(t, err)
				assert.True(t, tt.checkErr(err))
				assert.Len(t, f.service.Snapshot().Edges, 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestGraphService_AddRelationReportsConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(t, []string{"A", "B", "C"},
		[3]string{"A", "is-a", "B"},
		[3]string{"A", "hates", "C"},
	)

	count, err := f.service.AddRelation(context.Background(), "B", "likes", "C")

	require.NoError(t, err)
	assert.Equal(t, domainservices.ConflictSentinel, count)
}

func TestGraphService_RunInference(t *testing.T) {
	f := newFixture(t)
	f.seed(t, []string{"A", "B", "C"},
		[3]string{"A", "is-a", "B"},
		[3]string{"B", "likes", "C"},
	)
	f.publisher.events = nil

	result := f.service.RunInference(context.Background())

	assert.Equal(t, []domainservices.InferredRelation{{Source: "A", Target: "C", Relation: "likes"}}, result.NewRelations)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, []string{events.TypeRelationInferred, events.TypeInferenceCompleted}, f.publisher.types())

	assert.Equal(t, 1, f.metrics.inferences)
	assert.Equal(t, 1, f.metrics.newRelations)
	assert.Equal(t, 3, f.metrics.nodes)
	assert.Equal(t, 3, f.metrics.relations)

	snap := f.service.Snapshot()
	require.Len(t, snap.Edges, 3)
	assert.Equal(t, "inferred", snap.Edges[2].Type)
	assert.True(t, snap.Edges[2].Dashes)

	second := f.service.RunInference(context.Background())
	assert.Empty(t, second.NewRelations)
	assert.Equal(t, 0, f.service.CountPotential())
}

func TestGraphService_PublishFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("bus down")

	require.NoError(t, f.service.AddNode(context.Background(), "A", entities.NodeAttributes{}))
	assert.Len(t, f.service.Snapshot().Nodes, 1)
}

func TestGraphService_RemoveCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, []string{"A", "B", "C"},
		[3]string{"A", "is-a", "B"},
		[3]string{"B", "likes", "C"},
	)

	assert.True(t, f.service.RemoveNode(ctx, "B"))
	assert.False(t, f.service.RemoveNode(ctx, "B"))
	assert.False(t, f.service.RemoveRelation(ctx, "A", "B"))

	assert.Empty(t, f.service.Snapshot().Edges)
	assert.Empty(t, f.service.RunInference(ctx).NewRelations)
}

func TestGraphService_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, []string{"Dog", "Animal", "Food"},
		[3]string{"Dog", "is-a", "Animal"},
		[3]string{"Animal", "needs", "Food"},
	)
	f.service.RunInference(ctx)
	before := f.service.Snapshot()

	thumb := "data:image/png;base64,AAAA"
	filename, err := f.service.ExportPreset(ctx, ExportRequest{Name: "animals", Thumbnail: &thumb, Palette: []string{"#ff0000"}})
	require.NoError(t, err)
	assert.Equal(t, "animals.json", filename)

	f.service.RemoveNode(ctx, "Dog")
	require.NoError(t, f.service.ImportPreset(ctx, filename))

	assert.Equal(t, before, f.service.Snapshot())
	assert.Contains(t, f.publisher.types(), events.TypePresetSaved)
	assert.Contains(t, f.publisher.types(), events.TypeGraphReplaced)

	// A later export without thumbnail or palette keeps the imported ones
	_, err = f.service.ExportPreset(ctx, ExportRequest{Name: "copy"})
	require.NoError(t, err)
	copied, err := f.presets.Load(ctx, "copy.json")
	require.NoError(t, err)
	assert.Equal(t, &thumb, copied.Meta.Thumbnail)
	assert.Equal(t, []string{"#ff0000"}, copied.Settings.Palette)

	summaries, err := f.service.ListPresets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []preset.Summary{
		{Filename: "animals.json", Name: "animals", HasPreview: true},
		{Filename: "copy.json", Name: "copy", HasPreview: true},
	}, summaries)
}

func TestGraphService_FailedImportKeepsCurrentGraph(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, []string{"A", "B"}, [3]string{"A", "likes", "B"})
	before := f.service.Snapshot()

	f.presets.docs["broken.json"] = &preset.Document{
		Nodes: []string{"X"},
		Graph: preset.GraphSection{Edges: []preset.EdgeRecord{{Source: "X", Target: "Y", Relation: "likes"}}},
	}

	err := f.service.ImportPreset(ctx, "broken.json")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMissingEndpoint(err))
	assert.Equal(t, before, f.service.Snapshot())

	err = f.service.ImportPreset(ctx, "absent.json")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))

	err = f.service.ImportPreset(ctx, "../escape.json")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	assert.Equal(t, before, f.service.Snapshot())
}

func TestGraphService_ExportErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ExportPreset(ctx, ExportRequest{Name: "a/b"})
	assert.True(t, pkgerrors.IsValidation(err))

	f.presets.saveErr = pkgerrors.NewUnavailableError("preset store")
	_, err = f.service.ExportPreset(ctx, ExportRequest{Name: "ok"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestGraphService_LoadDefaultPreset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loaded, err := f.service.LoadDefaultPreset(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)

	f.presets.docs[preset.DefaultFilename] = &preset.Document{Nodes: []string{"Start"}}

	loaded, err = f.service.LoadDefaultPreset(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Len(t, f.service.Snapshot().Nodes, 1)
}

func TestGraphService_ConcurrentCallers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, []string{"Root"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("N%d", i)
			_ = f.service.AddNode(ctx, name, entities.NodeAttributes{})
			_, _ = f.service.AddRelation(ctx, name, "is-a", "Root")
			_ = f.service.CountPotential()
			_ = f.service.Snapshot()
			f.service.RunInference(ctx)
		}(i)
	}
	wg.Wait()

	snap := f.service.Snapshot()
	assert.Len(t, snap.Nodes, 9)
	assert.Len(t, snap.Edges, 8)
}
