package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"semnet/infrastructure/config"
	"semnet/infrastructure/persistence/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultPreset = `{
  "meta": {"name": "Default", "version": "0.2", "thumbnail": null},
  "settings": {"palette": []},
  "nodes": ["A", "B", "C"],
  "graph": {
    "nodes": [],
    "edges": [
      {"source": "A", "target": "B", "relation": "is-a", "type": "manual", "dashes": false},
      {"source": "B", "target": "C", "relation": "likes", "type": "manual", "dashes": false}
    ]
  }
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Environment = "test"
	cfg.LogLevel = "error"
	cfg.PresetsDir = t.TempDir()
	return cfg
}

func TestInitializeContainer_FileStore(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PresetsDir, "default.json"), []byte(defaultPreset), 0o644))

	container, cleanup, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.NotNil(t, container.Metrics)
	assert.Nil(t, container.Tracing)
	assert.IsType(t, &resilience.PresetRepository{}, container.Presets)

	snap := container.GraphService.Snapshot()
	assert.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Edges, 2)
	assert.Equal(t, 1, container.GraphService.CountPotential())

	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeContainer_BadgerInMemory(t *testing.T) {
	cfg := testConfig(t)
	cfg.PresetStore = config.StoreBadger
	cfg.BadgerInMemory = true
	cfg.EnableCircuitBreaker = false
	cfg.EnableMetrics = false

	container, cleanup, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.Nil(t, container.Metrics)
	assert.Empty(t, container.GraphService.Snapshot().Nodes, "no default preset in an empty store")

	summaries, err := container.GraphService.ListPresets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestProvideLogger_FollowsAtomicLevel(t *testing.T) {
	cfg := testConfig(t)
	level := ProvideLogLevel(cfg)

	logger, err := ProvideLogger(cfg, level)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(-1))
	level.SetLevel(-1)
	assert.True(t, logger.Core().Enabled(-1))
}
