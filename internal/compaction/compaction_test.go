package compaction_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestCompactionRewritesLiveEntriesAndDropsStaleGenerations(t *testing.T) {
	dataDir := t.TempDir()
	log := logger.New("compaction-test")

	idx, err := index.New(context.Background(), &index.Config{DataDir: dataDir, Logger: log})
	require.NoError(t, err)

	s, _, err := storage.Open(context.Background(), &storage.Config{
		Options: &options.Options{DataDir: dataDir},
		Logger:  log,
	}, idx)
	require.NoError(t, err)
	defer s.Close()

	// Overwrite one key several times in the active generation, plus one
	// untouched key, so compaction has both reclaimable and live data to
	// deal with.
	var lastPos index.CommandPos
	for i := 0; i < 5; i++ {
		pos, err := s.Append(storage.NewSetCommand("hot", fmt.Sprintf("v%d", i)))
		require.NoError(t, err)
		idx.Insert("hot", pos)
		lastPos = pos
	}
	_ = lastPos

	pos, err := s.Append(storage.NewSetCommand("cold", "stable"))
	require.NoError(t, err)
	idx.Insert("cold", pos)

	// Storage opened against an empty directory starts at generation 1, so
	// compaction_gen == 2 and the new active generation == 3.
	c := compaction.New(compaction.Config{Storage: s, Index: idx, Logger: log})
	newGen, err := c.Run()
	require.NoError(t, err)
	require.EqualValues(t, 3, newGen)
	require.EqualValues(t, 3, s.CurrentGen())

	hotPos, existed := idx.Lookup("hot")
	require.True(t, existed)
	require.EqualValues(t, 2, hotPos.Gen)

	coldPos, existed := idx.Lookup("cold")
	require.True(t, existed)

	hotCmd, err := s.Read(hotPos)
	require.NoError(t, err)
	require.Equal(t, "v4", hotCmd.Set.Value)

	coldCmd, err := s.Read(coldPos)
	require.NoError(t, err)
	require.Equal(t, "stable", coldCmd.Set.Value)

	// Appending after compaction must land in the new active generation.
	afterPos, err := s.Append(storage.NewSetCommand("after", "fresh"))
	require.NoError(t, err)
	require.Equal(t, newGen, afterPos.Gen)
}
