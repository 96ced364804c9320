package engine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, dataDir string, threshold uint64) *engine.Engine {
	t.Helper()
	if threshold == 0 {
		threshold = options.DefaultCompactionThreshold
	}
	e, err := engine.New(context.Background(), &engine.Config{
		Options: &options.Options{DataDir: dataDir, CompactionThreshold: threshold, CompactInterval: options.DefaultCompactInterval},
		Logger:  logger.New("engine-test"),
	})
	require.NoError(t, err)
	return e
}

func TestEngineSetGetOverwrite(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	require.NoError(t, e.Set("key", "value1"))
	v, err := e.Get("key")
	require.NoError(t, err)
	require.Equal(t, "value1", v)

	require.NoError(t, e.Set("key", "value2"))
	v, err = e.Get("key")
	require.NoError(t, err)
	require.Equal(t, "value2", v)
}

func TestEngineRemoveThenGetMissesAndDoubleRemoveErrors(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	require.NoError(t, e.Set("key", "value"))
	require.NoError(t, e.Remove("key"))

	_, err := e.Get("key")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFound(err))

	err = e.Remove("key")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFound(err))
}

func TestEnginePersistsAcrossReopen(t *testing.T) {
	dataDir := t.TempDir()

	e1 := newTestEngine(t, dataDir, 0)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Remove("a"))
	require.NoError(t, e1.Close())

	e2 := newTestEngine(t, dataDir, 0)
	defer e2.Close()

	_, err := e2.Get("a")
	require.Error(t, err)

	v, err := e2.Get("b")
	require.NoError(t, err)
	require.Equal(t, "2", v)
}

func TestEngineCompactsWhenThresholdCrossed(t *testing.T) {
	dataDir := t.TempDir()
	// A tiny threshold forces compaction well before 200 writes.
	e := newTestEngine(t, dataDir, 2048)
	defer e.Close()

	value := make([]byte, 10*1024)
	for i := range value {
		value[i] = 'x'
	}

	for i := 0; i < 200; i++ {
		require.NoError(t, e.Set("k", string(value)))
	}

	got, err := e.Get("k")
	require.NoError(t, err)
	require.Equal(t, string(value), got)

	// Every compaction leaves only its output generation and the new active
	// one on disk, so at most two segment files survive.
	gens, err := seginfo.ListGenerations(dataDir)
	require.NoError(t, err)
	require.LessOrEqual(t, len(gens), 2)
}

func TestEngineStressManyKeysSurviveReopen(t *testing.T) {
	dataDir := t.TempDir()
	e1 := newTestEngine(t, dataDir, 0)

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		require.NoError(t, e1.Set(key, fmt.Sprintf("value-%d", i)))
	}
	require.NoError(t, e1.Close())

	e2 := newTestEngine(t, dataDir, 0)
	defer e2.Close()

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		v, err := e2.Get(key)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("value-%d", i), v)
	}
}
