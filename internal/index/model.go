package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// CommandPos is the absolute minimum metadata required to locate and
// retrieve a command record from disk: which generation it lives in, the
// byte offset its serialized form starts at, and how many bytes it
// occupies. It is the sole in-memory representation of "where is the
// current value of this key" — everything else about the command (whether
// it was a Set or a Remove, its key, its value) is recovered by reading
// exactly Len bytes at Pos from generation Gen.
//
// Every key with a live CommandPos in the index is guaranteed (invariant 1,
// spec §3) to deserialize to a Set record at that location.
type CommandPos struct {
	// Gen is the generation (segment) the command was appended to.
	Gen uint64

	// Pos is the byte offset of the first byte of the serialized command
	// within that generation's log file.
	Pos int64

	// Len is the number of bytes the serialized command occupies. Reading
	// exactly this many bytes starting at Pos yields one complete,
	// self-contained command record.
	Len int64
}

// Index is the in-memory hash table mapping live keys to their disk
// location. It is a full materialization of the log's latest-write
// semantics: every key ever written and not subsequently removed has
// exactly one entry, and that entry always points at the most recent Set
// for that key.
type Index struct {
	dataDir string                // Directory the backing generation logs live in, for diagnostics.
	log     *zap.SugaredLogger    // Structured logger for index lifecycle events.
	entries map[string]CommandPos // The key -> location map itself.
	mu      sync.RWMutex          // Protects entries. The engine serializes mutations above this (spec §5); RWMutex lets concurrent read-only consumers (the debug stats endpoint) share.
	closed  atomic.Bool           // Whether Close has run.
}

// Config encapsulates the configuration parameters required to initialize an Index.
type Config struct {
	DataDir string             // Directory containing the generation log files this index describes.
	Logger  *zap.SugaredLogger // Structured logger for Index operations.
}
