// Package store provides the public factory for storage backends.
// Embedders pick a backend through Config and get back a types.Store; the
// implementations stay internal.
//
// Example:
//
//	st, err := store.Open(store.Config{
//	    Backend: store.BackendFlatFile,
//	    DataDir: ".tally",
//	})
//	defer st.Close()
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tally/internal/flatfile"
	"github.com/mesh-intelligence/tally/internal/memory"
	"github.com/mesh-intelligence/tally/internal/sqlite"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Store is a types.Store with a lifecycle.
type Store interface {
	types.Store
	Close() error
}

// dbFileName is the SQLite database file inside DataDir.
const dbFileName = "tally.db"

// Open validates the config and opens the selected backend.
func Open(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendFlatFile:
		s, err := flatfile.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		s, err := sqlite.Open(filepath.Join(cfg.DataDir, dbFileName))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackendUnknown, cfg.Backend)
	}
}
