package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/julianstephens/dailyfocus/internal/migration"
)

var (
	ErrNotLoaded      = errors.New("storage not loaded")
	ErrNotInitialized = errors.New("storage not initialized, run 'dailyfocus init' first")
)

// Provider is a schemaless key-value store. Keys are YYYY-MM-DD day keys or
// the literal "settings"; values are opaque JSON documents whose shape is the
// caller's concern.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the stored value for each requested key that exists.
	// A nil keys slice returns every entry.
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	// Set upserts every entry in one call.
	Set(ctx context.Context, entries map[string]json.RawMessage) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by providers backed by a versioned SQL schema.
type Migrator interface {
	SchemaStatus() (migration.Status, error)
	Migrate(logFn func(string)) (int, error)
}
