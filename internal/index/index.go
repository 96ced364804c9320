// Package index provides the in-memory hash table implementation for the
// ignite key-value store. This package embodies the core log-structured
// architectural principle: keep every live key in memory with minimal
// metadata while the actual command bytes live on disk.
//
// The index enables O(1) key lookups while keeping storage overhead
// minimal. It does not itself know how to read or write generation files;
// it only tracks where the engine's storage layer should look.
package index

import (
	"context"
	stdErrors "errors"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

var (
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates and initializes a new Index instance configured according to
// the provided parameters. The returned Index is immediately ready for use
// and includes a pre-sized map to reduce early rehashing.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		dataDir: config.DataDir,
		entries: make(map[string]CommandPos, 2046),
	}, nil
}

// Lookup returns the CommandPos for key and whether it has a live entry.
func (idx *Index) Lookup(key string) (CommandPos, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pos, ok := idx.entries[key]
	return pos, ok
}

// Insert records that key now lives at pos, displacing whatever entry
// previously existed. It returns the displaced entry so callers can account
// its length as reclaimable (spec §3's uncompacted counter).
func (idx *Index) Insert(key string, pos CommandPos) (CommandPos, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, existed := idx.entries[key]
	idx.entries[key] = pos
	return prev, existed
}

// Remove deletes key's entry, returning it (and whether it existed) so the
// caller can account its length as reclaimable.
func (idx *Index) Remove(key string) (CommandPos, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, existed := idx.entries[key]
	if existed {
		delete(idx.entries, key)
	}
	return prev, existed
}

// Keys returns a snapshot of every live key, for callers (the compactor)
// that need to iterate the index while potentially mutating entries for
// keys already visited.
func (idx *Index) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of live keys currently tracked.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close gracefully shuts down the Index, cleaning up resources and ensuring
// that the index cannot be used after closure.
func (idx *Index) Close() error {
	// Use atomic compare-and-swap to safely check and update the closed state.
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("Closing index system", "liveKeys", len(idx.entries))

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear the map to release all memory associated with the index entries.
	clear(idx.entries)
	idx.entries = nil

	idx.log.Infow("Index system closed successfully")
	return nil
}
