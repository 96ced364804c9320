package netclient_test

import (
	"encoding/json"
	"testing"

	"github.com/iamNilotpal/ignite/internal/netclient"
	"github.com/stretchr/testify/require"
)

func TestRequestWireFormatOmitsEmptyValue(t *testing.T) {
	raw, err := json.Marshal(netclient.Request{Op: netclient.OpGet, Key: "key"})
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"get","key":"key"}`, string(raw))
}

func TestResponseWireFormatRoundTrip(t *testing.T) {
	resp := netclient.Response{Ok: true, Found: true, Value: "value"}
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded netclient.Response
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, resp, decoded)
}
