package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const keyPrefix = "preset:"

// Config holds configuration for the embedded preset database
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability
	SyncWrites bool
}

// InMemoryConfig returns configuration for tests
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// zapLogger adapts zap to BadgerDB's Logger interface
type zapLogger struct {
	logger *zap.SugaredLogger
}

func (l *zapLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *zapLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *zapLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

// Open opens the database described by cfg. The caller must Close it.
func Open(cfg Config, logger *zap.Logger) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&zapLogger{logger: logger.Named("badger").Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// PresetRepository stores presets in an embedded BadgerDB, one key per file name
type PresetRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewPresetRepository creates a repository on an open database
func NewPresetRepository(db *badger.DB, logger *zap.Logger) *PresetRepository {
	return &PresetRepository{db: db, logger: logger}
}

// List returns summaries of every stored preset in key order
func (r *PresetRepository) List(ctx context.Context) ([]preset.Summary, error) {
	summaries := []preset.Summary{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			filename := strings.TrimPrefix(string(item.Key()), keyPrefix)

			var doc *preset.Document
			err := item.Value(func(val []byte) error {
				var perr error
				doc, perr = preset.Parse(val)
				return perr
			})
			if err != nil {
				r.logger.Debug("Skipping unreadable preset",
					zap.String("filename", filename),
					zap.Error(err),
				)
				continue
			}
			summaries = append(summaries, doc.Summary(filename))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list presets", err)
	}

	return summaries, nil
}

// Load reads a preset by filename
func (r *PresetRepository) Load(ctx context.Context, filename string) (*preset.Document, error) {
	if _, err := preset.Filename(filename); err != nil {
		return nil, err
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(filename))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("preset %s", filename))
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("load preset", err)
	}

	return preset.Parse(data)
}

// Save stores a preset, replacing any previous value
func (r *PresetRepository) Save(ctx context.Context, filename string, doc *preset.Document) error {
	if _, err := preset.Filename(filename); err != nil {
		return err
	}

	data, err := preset.Marshal(doc)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode preset").WithCause(err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(filename), data)
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("save preset", err)
	}

	r.logger.Debug("Preset stored",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func key(filename string) []byte {
	return []byte(keyPrefix + filename)
}
