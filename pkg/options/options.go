// Package options provides data structures and functions for configuring
// the Ignite database. It defines the parameters that control Ignite's
// storage behavior and maintenance operations: where generation logs live,
// how many reclaimable bytes trigger compaction, and how often a background
// sweep compacts regardless of that counter.
package options

import (
	"strings"
	"time"
)

// Defines the configuration parameters for Ignite DB.
// It provides control over storage location and compaction behavior.
//
// A segment here is not rotated by size (unlike a generic segmented log
// store): a new generation is only ever opened at startup and by the
// compactor, so there is no per-segment size knob to configure.
type Options struct {
	// Specifies the directory where generation log files are stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of reclaimable bytes (the
	// uncompacted counter of spec §3) that triggers compaction at the end
	// of a set or remove call.
	//
	// Default: 1MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// CompactInterval bounds how long a quiet store (no writes crossing the
	// threshold) can go between compaction sweeps. A background ticker
	// invokes compaction on this cadence regardless of the counter, so a
	// store that only ever overwrites a handful of hot keys still reclaims
	// space eventually.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactionThreshold = opts.CompactionThreshold
		o.CompactInterval = opts.CompactInterval
	}
}

// Sets the directory Ignite stores its generation logs in.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the interval at which the background sweep forces a compaction pass,
// independent of the reclaimable-bytes threshold.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// Sets the reclaimable-bytes threshold that triggers compaction.
func WithCompactionThreshold(bytes uint64) OptionFunc {
	return func(o *Options) {
		if bytes > 0 {
			o.CompactionThreshold = bytes
		}
	}
}
