package storage

import (
	"sync/atomic"

	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Storage is the core file-based component responsible for managing
// generation log files and handling command persistence. It owns every
// open file handle for the data directory: a buffered writer on the active
// generation, and one reader per generation (active included) so point
// reads never pay the cost of reopening a file.
//
// Storage does not know what a "key" or a "value" is beyond what Command
// encodes — it appends and reads opaque command records at caller-supplied
// offsets. Apart from replaying existing generations into the caller's
// index during Open, the index <-> command-position bookkeeping lives one
// layer up, in internal/engine, which is what lets Storage stay reusable by
// both the engine and the compactor.
type Storage struct {
	dataDir    string             // Directory holding the "<gen>.log" files.
	options    *options.Options   // Configuration parameters controlling storage behavior.
	log        *zap.SugaredLogger // Structured logger for operational visibility.
	currentGen uint64             // Generation the active writer targets.
	writer     *Writer            // Append target; always currentGen's file.
	readers    map[uint64]*Reader // One long-lived reader per known generation.
	closed     atomic.Bool        // Whether Close has run.
}

// Config encapsulates the configuration parameters required to initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
