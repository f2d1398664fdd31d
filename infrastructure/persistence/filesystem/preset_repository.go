package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"go.uber.org/zap"
)

// PresetRepository stores presets as JSON files in a single directory
type PresetRepository struct {
	dir    string
	logger *zap.Logger
}

// NewPresetRepository creates a repository rooted at dir, creating it if needed
func NewPresetRepository(dir string, logger *zap.Logger) (*PresetRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create presets directory %s: %w", dir, err)
	}
	return &PresetRepository{dir: dir, logger: logger}, nil
}

// Dir returns the directory presets are stored in
func (r *PresetRepository) Dir() string {
	return r.dir
}

// List returns summaries of every readable preset in the directory
func (r *PresetRepository) List(ctx context.Context) ([]preset.Summary, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list presets", err)
	}

	summaries := make([]preset.Summary, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !preset.IsPresetFile(entry.Name()) {
			continue
		}

		doc, err := r.read(entry.Name())
		if err != nil {
			r.logger.Debug("Skipping unreadable preset",
				zap.String("filename", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		summaries = append(summaries, doc.Summary(entry.Name()))
	}

	return summaries, nil
}

// Load reads a preset by filename
func (r *PresetRepository) Load(ctx context.Context, filename string) (*preset.Document, error) {
	if _, err := preset.Filename(filename); err != nil {
		return nil, err
	}

	doc, err := r.read(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("preset %s", filename))
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes the preset through a temporary file so readers never see a
// partial document
func (r *PresetRepository) Save(ctx context.Context, filename string, doc *preset.Document) error {
	if _, err := preset.Filename(filename); err != nil {
		return err
	}

	data, err := preset.Marshal(doc)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode preset").WithCause(err)
	}

	tmp, err := os.CreateTemp(r.dir, ".preset-*")
	if err != nil {
		return pkgerrors.NewDatabaseError("save preset", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pkgerrors.NewDatabaseError("save preset", err)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.NewDatabaseError("save preset", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, filename)); err != nil {
		return pkgerrors.NewDatabaseError("save preset", err)
	}

	r.logger.Debug("Preset written",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func (r *PresetRepository) read(filename string) (*preset.Document, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, filename))
	if err != nil {
		return nil, err
	}
	return preset.Parse(data)
}
