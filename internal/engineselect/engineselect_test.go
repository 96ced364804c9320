package engineselect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/internal/engineselect"
	"github.com/stretchr/testify/require"
)

func TestOpenClaimsFreshDirectoryAndWritesMarker(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	eng, err := engineselect.Open(ctx, engineselect.NameKvs, dir, "engineselect-test")
	require.NoError(t, err)
	defer eng.Close(ctx)

	raw, err := os.ReadFile(filepath.Join(dir, "engine"))
	require.NoError(t, err)
	require.Equal(t, "kvs", string(raw))
}

func TestOpenRefusesMismatchedEngineMarker(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine"), []byte("sled"), 0o644))

	_, err := engineselect.Open(ctx, engineselect.NameKvs, dir, "engineselect-test")
	require.Error(t, err)
}

func TestOpenReopensExistingKvsDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := engineselect.Open(ctx, engineselect.NameKvs, dir, "engineselect-test")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "key", "value"))
	require.NoError(t, first.Close(ctx))

	second, err := engineselect.Open(ctx, engineselect.NameKvs, dir, "engineselect-test")
	require.NoError(t, err)
	defer second.Close(ctx)

	value, err := second.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "value", value)
}

func TestOpenUnimplementedVariantErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := engineselect.Open(ctx, engineselect.NameSled, dir, "engineselect-test")
	require.Error(t, err)
}
