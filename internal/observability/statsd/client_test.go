package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenUDP(t *testing.T) (net.PacketConn, string) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, conn.LocalAddr().String()
}

func readPacket(t *testing.T, conn net.PacketConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClientCount(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "planoweb"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("auth.verify.valid", 1, map[string]string{"route": "protected"})

	assert.Equal(t, "planoweb.auth.verify.valid:1|c|#route:protected", readPacket(t, conn))
}

func TestClientTiming(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Timing("identity.verify", 250*time.Millisecond, nil)

	assert.Equal(t, "identity.verify:250|ms", readPacket(t, conn))
}

func TestClientMergesAndSortsTags(t *testing.T) {
	conn, addr := listenUDP(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"service": "planoweb", "env": "test"},
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("login.failure", 1, map[string]string{"env": "override"})

	assert.Equal(t, "login.failure:1|c|#env:override,service:planoweb", readPacket(t, conn))
}

func TestDisabledClientDropsMetrics(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	// Must not panic or dial.
	client.Count("auth.verify.valid", 1, nil)
	client.Timing("identity.verify", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	client.Count("x", 1, nil)
	client.Timing("x", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestEmptyAddressDisablesClient(t *testing.T) {
	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}
