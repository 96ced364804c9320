// Package engine provides the core database engine implementation for the Ignite storage system.
//
// The engine serves as the central coordinator and entry point for all database operations.
// It orchestrates the interaction between three main subsystems:
//   - Index: Manages in-memory data structures for fast key lookups
//   - Storage: Handles persistent data storage via the generation command log
//   - Compaction: Performs online maintenance that reclaims space from overwritten and tombstoned records
//
// Index mutation, log append, and compaction are one serialized sequence
// per spec §5 (a single mutex below the facade); reads only take the
// index's own read lock and never block behind a writer beyond that lock's
// own critical section.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	kvserrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = errors.New("operation failed: cannot access closed engine")
)

// Engine represents the main database engine that coordinates all subsystems.
// It acts as the primary interface for database operations and manages the lifecycle
// of all internal components.
type Engine struct {
	options *options.Options   // options contains all configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // log provides structured logging capabilities throughout the engine.
	closed  atomic.Bool        // closed is an atomic boolean that tracks the engine's lifecycle state.

	index      *index.Index          // index manages the in-memory key -> disk location map.
	storage    *storage.Storage      // storage handles all persistent data operations.
	compactor  *compaction.Compactor // compactor performs the online reclaim-space procedure of spec §4.5.
	writeMu    sync.Mutex            // Serializes set/remove/compaction — the single-writer rule of spec §5.
	uncompacted int64                // Reclaimable bytes accumulated since the last compaction (spec §3).
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance: it builds the index,
// replays every existing generation into it via storage.Open, and wires up
// the compactor against both.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, kvserrors.NewValidationError(
			nil, kvserrors.ErrorCodeInvalidInput, "Engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	idx, err := index.New(ctx, &index.Config{DataDir: config.Options.DataDir, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	store, uncompacted, err := storage.Open(ctx, &storage.Config{
		Logger:  config.Logger,
		Options: config.Options,
	}, idx)
	if err != nil {
		return nil, err
	}

	compactor := compaction.New(compaction.Config{Storage: store, Index: idx, Logger: config.Logger})

	e := &Engine{
		options:     config.Options,
		log:         config.Logger,
		index:       idx,
		storage:     store,
		compactor:   compactor,
		uncompacted: uncompacted,
	}

	config.Logger.Infow("Engine initialized", "liveKeys", idx.Len(), "uncompacted", uncompacted)
	return e, nil
}

// Set writes key=value, displacing whatever was there before, and triggers
// compaction if the reclaimable-bytes threshold is crossed (spec §4.4
// steps 1 and 5).
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	pos, err := e.storage.Append(storage.NewSetCommand(key, value))
	if err != nil {
		return err
	}

	prev, existed := e.index.Insert(key, pos)
	if existed {
		e.uncompacted += prev.Len
	}

	return e.maybeCompactLocked()
}

// Get returns the current value for key, or ErrKeyNotFound if it has no
// live entry.
func (e *Engine) Get(key string) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}

	pos, existed := e.index.Lookup(key)
	if !existed {
		return "", kvserrors.NewKeyNotFoundKvsError(key)
	}

	cmd, err := e.storage.Read(pos)
	if err != nil {
		return "", err
	}
	if !cmd.IsSet() {
		return "", kvserrors.NewUnexpectedCommandTypeError(key)
	}
	return cmd.Set.Value, nil
}

// Remove deletes key, appending a tombstone record, and returns
// ErrKeyNotFound if the key has no live entry (spec §4.4's Remove
// operation, step 0: "if key absent, return KeyNotFound without writing").
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if _, existed := e.index.Lookup(key); !existed {
		return kvserrors.NewKeyNotFoundKvsError(key)
	}

	tombstonePos, err := e.storage.Append(storage.NewRemoveCommand(key))
	if err != nil {
		return err
	}

	prev, existed := e.index.Remove(key)
	if existed {
		e.uncompacted += prev.Len
	}
	e.uncompacted += tombstonePos.Len

	return e.maybeCompactLocked()
}

// maybeCompactLocked runs compaction if the reclaimable-bytes counter has
// crossed the configured threshold. Callers must hold writeMu.
func (e *Engine) maybeCompactLocked() error {
	if e.uncompacted < int64(e.options.CompactionThreshold) {
		return nil
	}

	e.log.Infow("Compaction threshold crossed", "uncompacted", e.uncompacted, "threshold", e.options.CompactionThreshold)
	if _, err := e.compactor.Run(); err != nil {
		return err
	}
	e.uncompacted = 0
	return nil
}

// Compact forces an immediate compaction pass regardless of the
// reclaimable-bytes counter, for callers (the background sweep ticker,
// administrative tooling) that want to reclaim space proactively.
func (e *Engine) Compact() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if _, err := e.compactor.Run(); err != nil {
		return err
	}
	e.uncompacted = 0
	return nil
}

// Stats reports the engine's current live-key count and reclaimable-bytes
// counter, for the debug HTTP surface.
type Stats struct {
	LiveKeys    int
	Uncompacted int64
	CurrentGen  uint64
}

// Stats returns a point-in-time snapshot of engine state.
func (e *Engine) Stats() Stats {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return Stats{LiveKeys: e.index.Len(), Uncompacted: e.uncompacted, CurrentGen: e.storage.CurrentGen()}
}

// Close gracefully shuts down the engine and releases all associated resources.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if err := e.storage.Close(); err != nil {
		return err
	}
	return e.index.Close()
}
