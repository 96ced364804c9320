package index_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(context.Background(), &index.Config{
		DataDir: t.TempDir(),
		Logger:  logger.New("index-test"),
	})
	require.NoError(t, err)
	return idx
}

func TestIndexInsertLookupRemove(t *testing.T) {
	idx := newTestIndex(t)

	_, existed := idx.Lookup("k")
	require.False(t, existed)

	prev, existed := idx.Insert("k", index.CommandPos{Gen: 1, Pos: 0, Len: 10})
	require.False(t, existed)
	require.Zero(t, prev)

	pos, existed := idx.Lookup("k")
	require.True(t, existed)
	require.Equal(t, index.CommandPos{Gen: 1, Pos: 0, Len: 10}, pos)

	prev, existed = idx.Insert("k", index.CommandPos{Gen: 1, Pos: 10, Len: 12})
	require.True(t, existed)
	require.Equal(t, index.CommandPos{Gen: 1, Pos: 0, Len: 10}, prev)

	require.Equal(t, 1, idx.Len())

	removed, existed := idx.Remove("k")
	require.True(t, existed)
	require.Equal(t, index.CommandPos{Gen: 1, Pos: 10, Len: 12}, removed)

	_, existed = idx.Lookup("k")
	require.False(t, existed)

	_, existed = idx.Remove("missing")
	require.False(t, existed)
}

func TestIndexCloseIsIdempotentlyRejected(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), index.ErrIndexClosed)
}

func TestIndexKeysSnapshotsLiveKeysOnly(t *testing.T) {
	idx := newTestIndex(t)

	idx.Insert("a", index.CommandPos{Gen: 1, Pos: 0, Len: 1})
	idx.Insert("b", index.CommandPos{Gen: 1, Pos: 1, Len: 1})
	idx.Insert("c", index.CommandPos{Gen: 1, Pos: 2, Len: 1})
	idx.Remove("b")

	keys := idx.Keys()
	sort.Strings(keys)

	if diff := cmp.Diff([]string{"a", "c"}, keys); diff != "" {
		t.Fatalf("unexpected live key set (-want +got):\n%s", diff)
	}
}
