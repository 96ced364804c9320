// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (KeyDir/Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for in-memory data storage in Go applications.
package ignite

import (
	"context"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// Represents an instance of the Ignite key/value data store.
// It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this DB instance.
}

// Creates and initializes a new Ignite DB instance.
func NewInstance(context context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	// Initialize a logger for the given service.
	log := logger.New(service)

	// Initialize default options.
	defaultOpts := options.NewDefaultOptions()

	// Apply any provided functional options to override defaults.
	if len(opts) > 0 {
		for _, opt := range opts {
			opt(&defaultOpts)
		}
	}

	// Create a new internal engine with the initialized logger.
	eng, err := engine.New(context, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database.
// If the key already exists, its value will be updated.
// The operation is durable and will be written to the append-only log,
// and may trigger a compaction pass before returning (spec §4.4 step 5).
func (i *Instance) Set(_ context.Context, key, value string) error {
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with the given key.
func (i *Instance) Get(_ context.Context, key string) (string, error) {
	return i.engine.Get(key)
}

// Delete removes a key-value pair from the database by appending a
// tombstone record. Returns an error if the key has no live entry.
func (i *Instance) Delete(_ context.Context, key string) error {
	return i.engine.Remove(key)
}

// Compact forces an immediate compaction pass, independent of the
// reclaimable-bytes threshold.
func (i *Instance) Compact(_ context.Context) error {
	return i.engine.Compact()
}

// Stats reports the instance's current live-key count, reclaimable-bytes
// counter, and active generation.
func (i *Instance) Stats() engine.Stats {
	return i.engine.Stats()
}

// Close gracefully shuts down the Ignite DB instance, flushing the active
// generation and releasing every open file handle.
func (i *Instance) Close(_ context.Context) error {
	return i.engine.Close()
}
