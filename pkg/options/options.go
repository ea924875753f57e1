// Package options provides data structures and functions for configuring
// the kvs engine. It defines the tunable parameters that control segment
// rotation and compaction timing, plus the directory layout the store
// uses on disk.
package options

import "strings"

// Options defines the configuration parameters for a store instance.
type Options struct {
	// DataDir is the directory holding the store's segment files.
	//
	// Default: "."
	DataDir string `json:"dataDir"`

	// SegmentExtension is the file extension used for segment files,
	// without the leading dot. Segment files are named "<id>.<ext>".
	//
	// Default: "kvs"
	SegmentExtension string `json:"segmentExtension"`

	// MaxPartSize is the byte-size threshold that triggers rotation:
	// after any mutation, if the current segment's file length exceeds
	// this, a fresh segment is created and becomes current.
	//
	// Default: 1,000,000 bytes
	MaxPartSize int64 `json:"maxPartSize"`

	// CompactGarbageThreshold bounds the ratio of total appended
	// records to live keys. After any mutation, if that ratio (integer
	// division, 0 when there are no live keys) strictly exceeds this
	// value, compaction fires.
	//
	// Default: 10
	CompactGarbageThreshold int64 `json:"compactGarbageThreshold"`
}

// OptionFunc is a function that modifies a store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the package defaults to Options.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the directory in which segment files are stored.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithSegmentExtension sets the file extension used for segment files.
func WithSegmentExtension(ext string) OptionFunc {
	return func(o *Options) {
		ext = strings.TrimSpace(strings.TrimPrefix(ext, "."))
		if ext != "" {
			o.SegmentExtension = ext
		}
	}
}

// WithMaxPartSize sets the byte-size threshold that triggers segment
// rotation.
func WithMaxPartSize(size int64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxPartSize = size
		}
	}
}

// WithCompactGarbageThreshold sets the appended/live ratio that triggers
// compaction.
func WithCompactGarbageThreshold(threshold int64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactGarbageThreshold = threshold
		}
	}
}
