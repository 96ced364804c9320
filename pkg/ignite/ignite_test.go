package ignite_test

import (
	"context"
	"testing"

	"github.com/iamNilotpal/ignite/pkg/ignite"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestInstanceSetGetDelete(t *testing.T) {
	ctx := context.Background()
	inst, err := ignite.NewInstance(ctx, "ignite-test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "greeting", "hello"))

	v, err := inst.Get(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	require.NoError(t, inst.Delete(ctx, "greeting"))

	_, err = inst.Get(ctx, "greeting")
	require.Error(t, err)

	stats := inst.Stats()
	require.Zero(t, stats.LiveKeys)
}
