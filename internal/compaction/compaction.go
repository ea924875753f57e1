// Package compaction implements the KV engine's compaction algorithm: it
// rewrites every live record scattered across the existing segments into
// one fresh segment, then unlinks the predecessors. It is deliberately
// kept as its own package rather than inlined into internal/engine,
// because the engine constructor already expects a standalone compaction
// collaborator to hand off to — the same shape as the engine wiring a
// storage and an index subsystem.
package compaction

import (
	"github.com/cmsd2/kvs/internal/command"
	"github.com/cmsd2/kvs/internal/index"
	"github.com/cmsd2/kvs/internal/segment"
	"github.com/cmsd2/kvs/pkg/errors"
	"go.uber.org/zap"
)

// Compaction holds no state of its own; it is a small stateless
// collaborator the engine calls into, matching the "construct once, reuse
// for every compaction" shape its own constructor already assumes.
type Compaction struct {
	log *zap.SugaredLogger
}

// New creates a Compaction collaborator.
func New(log *zap.SugaredLogger) *Compaction {
	return &Compaction{log: log}
}

// Result is what a successful compaction produces: the new segment's id
// and handle, and the rewritten index to install in its place.
type Result struct {
	SegmentID uint64
	Segment   *segment.Segment
	Index     map[string]index.Pointer
}

// Run executes one compaction pass:
//
//  1. Creates a new destination segment via dir.Create.
//  2. Snapshots the current index.
//  3. Walks every existing segment (in ascending id order), and for each
//     record whose key's snapshot pointer still names that exact
//     (segmentID, offset), re-appends the record to the destination and
//     records its new offset.
//  4. Closes and unlinks every pre-existing segment.
//
// Segments and their handles to close/remove are supplied by the caller
// (the engine), since the engine — not this package — owns the open
// segment handles.
func (c *Compaction) Run(
	dir *segment.Directory,
	snapshot map[string]index.Pointer,
	segmentIDsInOrder []uint64,
	openSegments map[uint64]*segment.Segment,
) (*Result, error) {
	destID, dest, err := dir.Create()
	if err != nil {
		return nil, err
	}

	working := make(map[string]index.Pointer, len(snapshot))
	for k, v := range snapshot {
		working[k] = v
	}

	for _, sid := range segmentIDsInOrder {
		src, ok := openSegments[sid]
		if !ok {
			dest.Close()
			return nil, errors.NewInvalidPartitionError(sid)
		}

		err := src.Scan(func(text string, offset int64) (bool, error) {
			cmd, err := command.Decode(text)
			if err != nil {
				return false, err
			}

			ptr, isLive := working[cmd.Key]
			if !isLive || ptr.SegmentID != sid || ptr.Offset != offset {
				// Superseded or already-removed record: skip it.
				return true, nil
			}

			newOffset, err := dest.Append(text)
			if err != nil {
				return false, err
			}
			working[cmd.Key] = index.Pointer{SegmentID: destID, Offset: newOffset}

			return true, nil
		})
		if err != nil {
			dest.Close()
			return nil, err
		}
	}

	for _, sid := range segmentIDsInOrder {
		src := openSegments[sid]
		if err := src.Close(); err != nil {
			c.log.Errorw("failed to close old segment during compaction", "segmentId", sid, "error", err)
		}
		if err := dir.Remove(sid); err != nil {
			c.log.Errorw("failed to remove old segment during compaction", "segmentId", sid, "error", err)
			return nil, err
		}
	}

	c.log.Infow("compaction complete", "destinationSegmentId", destID, "liveKeys", len(working))

	return &Result{SegmentID: destID, Segment: dest, Index: working}, nil
}
