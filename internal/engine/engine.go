// Package engine implements the KV engine (C5): the component that owns
// the in-memory index and the set of open segment handles, and that
// coordinates append, rotation, and compaction to serve Get, Set, and
// Remove.
package engine

import (
	stdErrors "errors"
	"os"
	"sort"

	"github.com/cmsd2/kvs/internal/command"
	"github.com/cmsd2/kvs/internal/compaction"
	"github.com/cmsd2/kvs/internal/index"
	"github.com/cmsd2/kvs/internal/segment"
	"github.com/cmsd2/kvs/pkg/errors"
	"github.com/cmsd2/kvs/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations
	// on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// Engine coordinates the directory of segment files, the set of open
// segment handles, the current (append-target) segment, the in-memory
// index, and the tuning parameters that drive rotation and compaction.
type Engine struct {
	options    *options.Options
	log        *zap.SugaredLogger
	dir        *segment.Directory
	compaction *compaction.Compaction
	idx        *index.Index

	segments  map[uint64]*segment.Segment
	currentID uint64

	// appended counts every record applied to the index during replay
	// and every mutation since, regardless of whether that record
	// survives as the live one for its key — this is what the garbage
	// ratio is computed against. Compact resets it to the live-key count.
	appended int64

	closed bool
}

// Config holds the parameters needed to open an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open verifies that Options.DataDir is a directory (creating it if it
// does not exist), opens or creates its segments, and replays every record in ascending segment-id
// order to rebuild the in-memory index.
func Open(config *Config) (*Engine, error) {
	opts := config.Options
	log := config.Logger

	if err := ensureIsDirectory(opts.DataDir); err != nil {
		return nil, err
	}

	dir := segment.NewDirectory(opts.DataDir, opts.SegmentExtension)
	if err := dir.EnsureDir(); err != nil {
		return nil, err
	}

	e := &Engine{
		options:    opts,
		log:        log,
		dir:        dir,
		compaction: compaction.New(log),
		idx:        index.New(log),
		segments:   make(map[uint64]*segment.Segment),
	}

	ids, err := dir.List()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		id, seg, err := dir.Create()
		if err != nil {
			return nil, err
		}
		e.segments[id] = seg
		e.currentID = id
	} else {
		for _, id := range ids {
			seg, err := dir.Open(id)
			if err != nil {
				return nil, err
			}
			e.segments[id] = seg
			if id > e.currentID {
				e.currentID = id
			}
		}
	}

	if err := e.load(ids); err != nil {
		return nil, err
	}

	log.Infow("engine opened", "dataDir", opts.DataDir, "currentSegmentId", e.currentID, "liveKeys", e.idx.Len())

	return e, nil
}

// load replays every segment in ascending id order, applying each command
// to the index and counting every record observed.
func (e *Engine) load(ids []uint64) error {
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		seg := e.segments[id]
		err := seg.Scan(func(text string, offset int64) (bool, error) {
			cmd, err := command.Decode(text)
			if err != nil {
				return false, err
			}

			switch cmd.Op {
			case command.OpSet:
				e.idx.Set(cmd.Key, index.Pointer{SegmentID: id, Offset: offset})
			case command.OpRemove:
				e.idx.Delete(cmd.Key)
			}
			e.appended++

			return true, nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Get looks up key in the index. The returned bool reports whether the
// key is live; when the key is absent, the string and error are both zero
// values, matching spec.md's "absent is a distinct, non-error outcome" rule.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed {
		return "", false, ErrEngineClosed
	}

	ptr, ok := e.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	seg, ok := e.segments[ptr.SegmentID]
	if !ok {
		return "", false, errors.NewInvalidPartitionError(ptr.SegmentID)
	}

	text, err := seg.ReadAt(ptr.Offset)
	if err != nil {
		return "", false, err
	}

	cmd, err := command.Decode(text)
	if err != nil {
		return "", false, err
	}
	if cmd.Op != command.OpSet {
		// Invariant 1 (§3) guarantees every index entry points at a
		// Set record; reaching a Remove here means the index and
		// the log have diverged.
		return "", false, errors.NewInvalidPartitionError(ptr.SegmentID).WithKey(key)
	}

	return cmd.Value, true, nil
}

// Set appends a Set command to the current segment, updates the index,
// and runs the post-mutation maintenance sequence.
func (e *Engine) Set(key, value string) error {
	if e.closed {
		return ErrEngineClosed
	}

	line, err := command.Encode(command.Set(key, value))
	if err != nil {
		return err
	}

	cur := e.segments[e.currentID]
	offset, err := cur.Append(line)
	if err != nil {
		return err
	}

	e.idx.Set(key, index.Pointer{SegmentID: e.currentID, Offset: offset})
	e.appended++

	return e.maintain()
}

// Remove deletes key's index entry and appends a Remove command. It fails
// with NotFound, leaving the store unmodified, if key has no live entry.
func (e *Engine) Remove(key string) error {
	if e.closed {
		return ErrEngineClosed
	}

	if !e.idx.Delete(key) {
		return errors.NewNotFoundError(key)
	}

	line, err := command.Encode(command.Remove(key))
	if err != nil {
		return err
	}

	cur := e.segments[e.currentID]
	if _, err := cur.Append(line); err != nil {
		return err
	}
	e.appended++

	return e.maintain()
}

// maintain runs the post-mutation maintenance sequence: compact-if-needed
// first, then rotate-if-needed, so that a freshly compacted segment that
// already exceeds the size cap still gets rotated before control returns.
func (e *Engine) maintain() error {
	if e.shouldCompact() {
		if err := e.Compact(); err != nil {
			return err
		}
	}
	return e.rotateIfNeeded()
}

// shouldCompact reports whether appended/live strictly exceeds the
// configured garbage threshold, using integer division (0 when there are
// no live keys).
func (e *Engine) shouldCompact() bool {
	live := int64(e.idx.Len())
	if live == 0 {
		return false
	}
	ratio := e.appended / live
	return ratio > e.options.CompactGarbageThreshold
}

// rotateIfNeeded opens a fresh current segment if the current one exceeds
// MaxPartSize.
func (e *Engine) rotateIfNeeded() error {
	cur := e.segments[e.currentID]
	size, err := cur.Size()
	if err != nil {
		return err
	}
	if size <= e.options.MaxPartSize {
		return nil
	}

	id, seg, err := e.dir.Create()
	if err != nil {
		return err
	}

	e.segments[id] = seg
	e.currentID = id

	e.log.Infow("segment rotated", "newSegmentId", id, "previousSize", size)

	return nil
}

// Compact rewrites every live record into a fresh segment and unlinks the
// predecessors, per spec.md §4.5.
func (e *Engine) Compact() error {
	if e.closed {
		return ErrEngineClosed
	}

	snapshot := e.idx.Snapshot()

	ids := make([]uint64, 0, len(e.segments))
	for id := range e.segments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result, err := e.compaction.Run(e.dir, snapshot, ids, e.segments)
	if err != nil {
		return err
	}

	e.segments = map[uint64]*segment.Segment{result.SegmentID: result.Segment}
	e.currentID = result.SegmentID

	newIdx := make(map[string]index.Pointer, len(result.Index))
	for k, v := range result.Index {
		newIdx[k] = v
	}
	e.idx.Replace(newIdx)
	e.appended = int64(len(newIdx))

	return e.rotateIfNeeded()
}

// Close closes every open segment handle. It is idempotent: a second call
// returns ErrEngineClosed without touching any handle twice.
func (e *Engine) Close() error {
	if e.closed {
		return ErrEngineClosed
	}
	e.closed = true

	var firstErr error
	for _, seg := range e.segments {
		if err := seg.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ensureIsDirectory errors if path exists and is not a directory. A
// non-existent path is fine — EnsureDir creates it.
func ensureIsDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError(err, path)
	}
	if !info.IsDir() {
		return errors.NewConfigError("data directory path exists and is not a directory: " + path)
	}
	return nil
}
