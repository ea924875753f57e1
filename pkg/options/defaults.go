package options

const (
	// DefaultDataDir is the directory used when no data directory is
	// configured explicitly.
	DefaultDataDir = "."

	// DefaultSegmentExtension is the file extension for segment files.
	DefaultSegmentExtension = "kvs"

	// DefaultMaxPartSize is the default segment rotation threshold, in
	// bytes.
	DefaultMaxPartSize int64 = 1_000_000

	// DefaultCompactGarbageThreshold is the default appended/live
	// ratio that triggers compaction.
	DefaultCompactGarbageThreshold int64 = 10
)

// defaultOptions holds the default configuration for a store instance.
var defaultOptions = Options{
	DataDir:                 DefaultDataDir,
	SegmentExtension:        DefaultSegmentExtension,
	MaxPartSize:             DefaultMaxPartSize,
	CompactGarbageThreshold: DefaultCompactGarbageThreshold,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
