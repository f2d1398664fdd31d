package badger

import (
	"context"
	"testing"

	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) (*PresetRepository, *badger.DB) {
	t.Helper()
	db, err := Open(InMemoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPresetRepository(db, zap.NewNop()), db
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{}, nil)
	assert.Error(t, err)
}

func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(Config{Path: dir, SyncWrites: true}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, NewPresetRepository(db, zap.NewNop()).Save(ctx, "kept.json", &preset.Document{Nodes: []string{"A"}}))
	require.NoError(t, db.Close())

	db, err = Open(Config{Path: dir}, nil)
	require.NoError(t, err)
	defer db.Close()

	doc, err := NewPresetRepository(db, zap.NewNop()).Load(ctx, "kept.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, doc.Nodes)
}

func TestPresetRepository_SaveLoad(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	thumb := "abc"
	doc := &preset.Document{
		Meta:  preset.Meta{Name: "Animals", Version: preset.AppVersion, Thumbnail: &thumb},
		Nodes: []string{"Dog", "Animal"},
		Graph: preset.GraphSection{
			Edges: []preset.EdgeRecord{{Source: "Dog", Target: "Animal", Relation: "is-a", Type: "manual"}},
		},
	}

	require.NoError(t, repo.Save(ctx, "animals.json", doc))

	loaded, err := repo.Load(ctx, "animals.json")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestPresetRepository_LoadErrors(t *testing.T) {
	repo, db := newTestRepository(t)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set(key("broken.json"), []byte("{"))
	}))

	tests := []struct {
		filename string
		checkFn  func(error) bool
	}{
		{filename: "absent.json", checkFn: pkgerrors.IsNotFound},
		{filename: "broken.json", checkFn: pkgerrors.IsValidation},
		{filename: "a/b.json", checkFn: pkgerrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, err := repo.Load(context.Background(), tt.filename)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err))
		})
	}
}

func TestPresetRepository_List(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()
	thumb := "abc"

	require.NoError(t, repo.Save(ctx, "zoo.json", &preset.Document{Meta: preset.Meta{Name: "Zoo", Thumbnail: &thumb}}))
	require.NoError(t, repo.Save(ctx, "farm.json", &preset.Document{}))
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key("broken.json"), []byte("nope")); err != nil {
			return err
		}
		return txn.Set([]byte("other:key"), []byte("{}"))
	}))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []preset.Summary{
		{Filename: "farm.json", Name: preset.DefaultName},
		{Filename: "zoo.json", Name: "Zoo", HasPreview: true},
	}, summaries)
}
