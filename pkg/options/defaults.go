package options

import "time"

const (
	// Specifies the default directory where IgniteDB will store its
	// generation log files. If no other directory is specified during
	// initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Defines the default time duration between background compaction
	// sweeps, independent of the reclaimable-bytes threshold.
	DefaultCompactInterval = time.Hour * 5

	// DefaultCompactionThreshold is the default reclaimable-bytes trigger
	// for compaction: 1MiB, per spec §4.4.
	DefaultCompactionThreshold uint64 = 1024 * 1024
)

// Holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactInterval:     DefaultCompactInterval,
	CompactionThreshold: DefaultCompactionThreshold,
}

func NewDefaultOptions() Options {
	return defaultOptions
}
