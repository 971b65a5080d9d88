package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockConn is an inert Connection for hub tests.
type mockConn struct{}

func (mockConn) ReadMessage() (int, []byte, error)       { select {} }
func (mockConn) WriteMessage(int, []byte) error          { return nil }
func (mockConn) Close() error                            { return nil }
func (mockConn) SetReadLimit(int64)                      {}
func (mockConn) SetReadDeadline(time.Time) error         { return nil }
func (mockConn) SetWriteDeadline(time.Time) error        { return nil }
func (mockConn) SetPongHandler(func(appData string) error) {}
func (mockConn) RemoteAddr() string                      { return "127.0.0.1:12345" }

func startedHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := startedHub(t)

	client := NewClientWithConnection(hub, mockConn{}, nil)
	hub.Register(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// First message is the connection acknowledgement.
	msg := receive(t, client)
	assert.Equal(t, TypeConnection, msg["type"])

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastProgress(t *testing.T) {
	hub := startedHub(t)

	client := NewClientWithConnection(hub, mockConn{}, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	receive(t, client) // drain connection ack

	hub.BroadcastProgress("AAPL", 2, 5)

	msg := receive(t, client)
	assert.Equal(t, TypeProgress, msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Equal(t, float64(2), data["current"])
	assert.Equal(t, float64(5), data["total"])
}

func TestHubBroadcastFileResult(t *testing.T) {
	hub := startedHub(t)

	client := NewClientWithConnection(hub, mockConn{}, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	receive(t, client)

	hub.BroadcastFileResult("TSLA", false, "parse_error")

	msg := receive(t, client)
	assert.Equal(t, TypeFileComplete, msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "TSLA", data["symbol"])
	assert.Equal(t, false, data["success"])
	assert.Equal(t, "parse_error", data["error_kind"])
}

func TestHubBroadcastBatchComplete(t *testing.T) {
	hub := startedHub(t)

	client := NewClientWithConnection(hub, mockConn{}, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	receive(t, client)

	hub.BroadcastBatchComplete(5, 1, 250*time.Millisecond)

	msg := receive(t, client)
	assert.Equal(t, TypeBatchComplete, msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, float64(5), data["files"])
	assert.Equal(t, float64(1), data["failures"])
}

func TestHubStopIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()

	hub.Stop()
	hub.Stop()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubMetrics(t *testing.T) {
	hub := startedHub(t)

	client := NewClientWithConnection(hub, mockConn{}, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	m := hub.Metrics()
	assert.Equal(t, 1, m["active_clients"])
	assert.Equal(t, int64(1), m["total_connections"])
}
