package server_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iamNilotpal/ignite/internal/engineselect"
	"github.com/iamNilotpal/ignite/internal/netclient"
	"github.com/iamNilotpal/ignite/internal/server"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (engineselect.Engine, net.Listener) {
	t.Helper()
	ctx := context.Background()

	eng, err := engineselect.Open(ctx, engineselect.NameKvs, t.TempDir(), "server-test")
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close(ctx) })

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(eng, logger.New("server-test"))
	ctx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	go srv.Serve(ctx, listener)
	return eng, listener
}

func TestServerHandlesSetGetRemoveOverOneConnection(t *testing.T) {
	_, listener := newTestServer(t)

	client, err := netclient.Dial(listener.Addr().String(), time.Second)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set("key", "value"))

	value, found, err := client.Get("key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value", value)

	require.NoError(t, client.Remove("key"))

	_, found, err = client.Get("key")
	require.NoError(t, err)
	require.False(t, found)

	err = client.Remove("key")
	require.Error(t, err)
}

func TestServerHandlesMultipleSequentialConnections(t *testing.T) {
	_, listener := newTestServer(t)

	first, err := netclient.Dial(listener.Addr().String(), time.Second)
	require.NoError(t, err)
	require.NoError(t, first.Set("shared", "seen-by-second"))
	require.NoError(t, first.Close())

	second, err := netclient.Dial(listener.Addr().String(), time.Second)
	require.NoError(t, err)
	defer second.Close()

	value, found, err := second.Get("shared")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "seen-by-second", value)
}

func TestDebugMuxReportsHealthAndStats(t *testing.T) {
	eng, _ := newTestServer(t)

	ts := httptest.NewServer(server.NewDebugMux(eng))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, eng.Set(context.Background(), "key", "value"))

	resp, err = http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
