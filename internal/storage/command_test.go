package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandWireFormat(t *testing.T) {
	set := NewSetCommand("key", "value")
	encoded, err := set.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"Set":{"key":"key","value":"value"}}`, string(encoded))

	remove := NewRemoveCommand("key")
	encoded, err = remove.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"Remove":{"key":"key"}}`, string(encoded))

	var decoded Command
	require.NoError(t, json.Unmarshal([]byte(`{"Set":{"key":"a","value":"b"}}`), &decoded))
	require.True(t, decoded.IsSet())
	require.False(t, decoded.IsRemove())
	require.Equal(t, "a", decoded.Key())
	require.Equal(t, "b", decoded.Set.Value)
}
