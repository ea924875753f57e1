// Package kvs is the public, embeddable API of this store: a single type,
// Store, wrapping the engine so a Go program can open a data directory and
// call Get/Set/Remove/Compact/Close without reaching into internal/engine
// itself.
package kvs

import (
	"github.com/cmsd2/kvs/internal/engine"
	"github.com/cmsd2/kvs/pkg/logger"
	"github.com/cmsd2/kvs/pkg/options"
	"go.uber.org/zap"
)

// Store is an open key-value store backed by a directory of segment
// files. A Store is not safe for concurrent use by multiple goroutines
// without external synchronization — the store is single-writer, per the
// original design.
type Store struct {
	eng *engine.Engine
	log *zap.SugaredLogger
}

// Open opens (or creates) a store rooted at dir, applying any supplied
// options over the package defaults.
func Open(dir string, opts ...options.OptionFunc) (*Store, error) {
	o := options.NewDefaultOptions()
	options.WithDataDir(dir)(&o)
	for _, fn := range opts {
		fn(&o)
	}

	log := logger.New("kvs")

	eng, err := engine.Open(&engine.Config{Options: &o, Logger: log})
	if err != nil {
		return nil, err
	}

	return &Store{eng: eng, log: log}, nil
}

// Get returns the value for key. The bool reports whether key is live;
// when key is absent, both the string and the error are zero values.
func (s *Store) Get(key string) (string, bool, error) {
	return s.eng.Get(key)
}

// Set writes value for key, creating or overwriting it.
func (s *Store) Set(key, value string) error {
	return s.eng.Set(key, value)
}

// Remove deletes key. It returns a not-found error, leaving the store
// unmodified, if key has no live entry.
func (s *Store) Remove(key string) error {
	return s.eng.Remove(key)
}

// Compact rewrites every live record into a fresh segment and removes the
// predecessors, reclaiming space occupied by overwritten and removed
// records. It runs automatically after mutations once the configured
// garbage threshold is crossed; callers may also invoke it directly.
func (s *Store) Compact() error {
	return s.eng.Compact()
}

// Close releases the store's open file handles. A Store must not be used
// after Close returns; a second Close call returns an error.
func (s *Store) Close() error {
	return s.eng.Close()
}
