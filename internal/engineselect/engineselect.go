// Package engineselect provides the "small capability abstraction with two
// variants" referenced by spec §9: an Engine interface narrow enough that
// the log-structured store here and an alternative embedded engine could
// share a data directory, plus the marker file that records which one
// currently owns it.
//
// The engine this repository specifies (spec §1) is the only one
// implemented; the alternative has a Name and is recognised in the marker
// file, but Open returns an error when asked to open it, since wiring a
// real third-party B-tree store is explicitly out of scope for the core
// engine.
package engineselect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/ignite"
	"github.com/iamNilotpal/ignite/pkg/options"
	atomicfile "github.com/natefinch/atomic"
)

// markerFile is the small text file (spec §6) recording which engine owns
// a data directory, named literally "engine" inside it.
const markerFile = "engine"

// Name identifies which engine variant owns a data directory.
type Name string

const (
	// NameKvs is the log-structured engine this repository implements.
	NameKvs Name = "kvs"

	// NameSled names the alternative embedded engine of spec §9 — a
	// third-party B-tree store the original workspace could delegate to.
	// This package only tracks ownership for it; it implements no variant
	// of its own, since doing so is out of this engine's scope (spec §1).
	NameSled Name = "sled"
)

// Engine is the capability surface both variants must expose — just
// enough to serve the request/response server and debug mux of §6.
type Engine interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
	Compact(ctx context.Context) error
	Stats() engine.Stats
	Close(ctx context.Context) error
}

// igniteEngine adapts pkg/ignite.Instance to the Engine interface.
type igniteEngine struct{ instance *ignite.Instance }

func (e *igniteEngine) Set(ctx context.Context, key, value string) error {
	return e.instance.Set(ctx, key, value)
}

func (e *igniteEngine) Get(ctx context.Context, key string) (string, error) {
	return e.instance.Get(ctx, key)
}

func (e *igniteEngine) Remove(ctx context.Context, key string) error {
	return e.instance.Delete(ctx, key)
}

func (e *igniteEngine) Compact(ctx context.Context) error {
	return e.instance.Compact(ctx)
}

func (e *igniteEngine) Stats() engine.Stats {
	return e.instance.Stats()
}

func (e *igniteEngine) Close(ctx context.Context) error {
	return e.instance.Close(ctx)
}

// Open checks the data directory's marker file (if any), refuses to open a
// directory marked for a different engine than want, writes/confirms the
// marker atomically, and returns the opened Engine.
//
// A fresh directory (no marker yet) is claimed for want. This mirrors the
// original workspace's server bootstrap, which fails fast rather than let
// two incompatible engines silently share a directory.
func Open(ctx context.Context, want Name, dataDir, service string, opts ...options.OptionFunc) (Engine, error) {
	markerPath := filepath.Join(dataDir, markerFile)

	existing, err := readMarker(markerPath)
	if err != nil {
		return nil, err
	}
	if existing != "" && Name(existing) != want {
		return nil, errors.NewConfigurationValidationError(
			"engine", fmt.Sprintf("data directory %q is owned by engine %q, cannot open as %q", dataDir, existing, want),
		)
	}

	switch want {
	case NameKvs:
		allOpts := append([]options.OptionFunc{options.WithDataDir(dataDir)}, opts...)
		instance, err := ignite.NewInstance(ctx, service, allOpts...)
		if err != nil {
			return nil, err
		}
		if err := writeMarker(markerPath, want); err != nil {
			instance.Close(ctx)
			return nil, err
		}
		return &igniteEngine{instance: instance}, nil

	default:
		return nil, fmt.Errorf("engineselect: engine variant %q is not implemented by this build (only %q is)", want, NameKvs)
	}
}

func readMarker(path string) (string, error) {
	exists, err := filesys.Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func writeMarker(path string, name Name) error {
	return atomicfile.WriteFile(path, strings.NewReader(string(name)))
}
