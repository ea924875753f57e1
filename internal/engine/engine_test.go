package engine

import (
	"testing"

	"github.com/cmsd2/kvs/pkg/errors"
	"github.com/cmsd2/kvs/pkg/logger"
	"github.com/cmsd2/kvs/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	return &Config{Options: &opts, Logger: logger.Nop()}
}

func TestSetThenGetReturnsTheWrittenValue(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("key", "value"))

	got, ok, err := e.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", got)
}

func TestGetOnMissingKeyIsNotAnError(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)
	defer e.Close()

	got, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestRemoveErasesTheKey(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("key", "value"))
	require.NoError(t, e.Remove("key"))

	_, ok, err := e.Get("key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveOnMissingKeyFails(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)
	defer e.Close()

	err = e.Remove("missing")
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	cfg := newTestConfig(t)

	e1, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Remove("a"))
	require.NoError(t, e1.Close())

	e2, err := Open(cfg)
	require.NoError(t, err)
	defer e2.Close()

	_, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	got, ok, err := e2.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", got)
}

func TestOverwriteReturnsLatestValue(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("key", "first"))
	require.NoError(t, e.Set("key", "second"))

	got, ok, err := e.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", got)
}

func TestCompactionPreservesLiveKeysAndLeavesOneSegment(t *testing.T) {
	cfg := newTestConfig(t)
	e, err := Open(cfg)
	require.NoError(t, err)
	defer e.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, e.Set("key", "value"))
	}
	require.NoError(t, e.Set("survivor", "alive"))

	require.NoError(t, e.Compact())

	got, ok, err := e.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", got)

	got, ok, err = e.Get("survivor")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alive", got)

	require.Len(t, e.segments, 1)
}

func TestRotationCreatesNewSegmentWhenSizeExceedsCap(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Options.MaxPartSize = 1
	cfg.Options.CompactGarbageThreshold = 1000

	e, err := Open(cfg)
	require.NoError(t, err)
	defer e.Close()

	startID := e.currentID
	require.NoError(t, e.Set("key", "value"))

	require.True(t, e.currentID > startID)
}

func TestSegmentIDsAreNeverReused(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Options.MaxPartSize = 1
	cfg.Options.CompactGarbageThreshold = 1000

	e, err := Open(cfg)
	require.NoError(t, err)
	defer e.Close()

	seen := map[uint64]bool{e.currentID: true}
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Set("key", "value"))
		require.False(t, seen[e.currentID])
		seen[e.currentID] = true
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	e, err := Open(newTestConfig(t))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.Error(t, e.Close())
}
