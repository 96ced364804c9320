// Package compaction implements the online compaction procedure of spec
// §4.5: once the reclaimable-bytes counter crosses its threshold, every
// live index entry is copied verbatim into a brand-new generation, and
// every generation older than that one is deleted.
//
// The compactor never runs concurrently with itself or with a write — the
// engine facade serializes all three (spec §5) — so this package assumes
// single-caller access and does no locking of its own.
package compaction

import (
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	"go.uber.org/zap"
)

// Compactor rewrites an engine's live data into a fresh generation on
// demand and retires everything older.
type Compactor struct {
	storage *storage.Storage
	index   *index.Index
	log     *zap.SugaredLogger
}

// Config encapsulates the collaborators a Compactor operates on.
type Config struct {
	Storage *storage.Storage
	Index   *index.Index
	Logger  *zap.SugaredLogger
}

// New builds a Compactor bound to storage and index. Both must already be
// open; the Compactor holds no ownership over their lifecycle.
func New(config Config) *Compactor {
	return &Compactor{storage: config.Storage, index: config.Index, log: config.Logger}
}

// Run executes the procedure of spec §4.5 steps 1-4 and returns the
// generation number of the new active segment so the caller (the engine)
// can keep targeting it for subsequent appends. Resetting the
// reclaimable-bytes counter (step 5) is left to the caller, which owns it.
func (c *Compactor) Run() (newActiveGen uint64, err error) {
	currentGen := c.storage.CurrentGen()
	compactionGen := currentGen + 1
	nextActiveGen := currentGen + 2

	c.log.Infow(
		"Starting compaction",
		"currentGen", currentGen, "compactionGen", compactionGen, "nextActiveGen", nextActiveGen, "liveKeys", c.index.Len(),
	)

	compactionWriter, err := c.storage.OpenGenerationForWrite(compactionGen)
	if err != nil {
		return 0, err
	}

	nextWriter, err := c.storage.OpenGenerationForWrite(nextActiveGen)
	if err != nil {
		compactionWriter.Close()
		return 0, err
	}

	for _, key := range c.index.Keys() {
		pos, existed := c.index.Lookup(key)
		if !existed {
			// Removed by a concurrent-with-this-loop caller — can't happen
			// under the engine's single-writer serialization, but a stale
			// key from the snapshot taken by Keys() is harmless to skip.
			continue
		}

		newOffset, err := c.storage.CopyCommand(pos, compactionWriter)
		if err != nil {
			return 0, err
		}

		// Step 2's "rewrite the entry in place" does not count as a
		// reclaim-accounting event: uncompacted is reset unconditionally
		// in step 5, so the displaced previous value here is discarded.
		c.index.Insert(key, index.CommandPos{Gen: compactionGen, Pos: newOffset, Len: pos.Len})
	}

	if err := compactionWriter.Flush(); err != nil {
		return 0, err
	}
	// compactionWriter's generation keeps serving reads through the reader
	// OpenGenerationForWrite already registered for it; nothing ever
	// appends to it again, so its own fd is closed here rather than left
	// open for the rest of the process's life.
	if err := compactionWriter.Close(); err != nil {
		c.log.Warnw("Failed to close compaction writer", "error", err)
	}

	if err := c.storage.ActivateGeneration(nextActiveGen, nextWriter); err != nil {
		c.log.Warnw("Failed to close outgoing writer during compaction", "error", err)
	}

	if err := c.storage.RemoveGenerations(compactionGen); err != nil {
		c.log.Warnw("Compaction finished with stale-generation cleanup errors", "error", err)
	}

	c.log.Infow("Compaction finished", "newActiveGen", nextActiveGen, "liveKeys", c.index.Len())
	return nextActiveGen, nil
}
