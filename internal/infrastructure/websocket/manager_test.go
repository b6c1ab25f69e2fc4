package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerClient(t *testing.T, m *Manager, id string) *Client {
	t.Helper()

	client := NewClient(id, "user-1", nil)
	m.Register <- client

	require.Eventually(t, func() bool {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		_, ok := m.clients[id]
		return ok
	}, time.Second, time.Millisecond)

	return client
}

func unregisterClient(t *testing.T, m *Manager, client *Client) {
	t.Helper()

	m.Unregister <- client

	require.Eventually(t, func() bool {
		select {
		case <-client.done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestManagerPushDeliversToRegisteredClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := registerClient(t, m, "conn-1")

	m.Push(client, []byte(`{"type":"rooms"}`))

	select {
	case raw := <-client.Send:
		assert.Equal(t, `{"type":"rooms"}`, string(raw))
	default:
		t.Fatal("expected a queued message")
	}
}

func TestManagerPushAfterUnregisterIsNoOp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := registerClient(t, m, "conn-1")
	unregisterClient(t, m, client)

	// A projection callback snapshotted before the disconnect may still fire;
	// its push must be dropped, not panic.
	assert.NotPanics(t, func() {
		m.Push(client, []byte(`{"type":"messages"}`))
	})

	select {
	case <-client.Send:
		t.Fatal("message should have been dropped after unregister")
	default:
	}
}

func TestManagerUnregisterTwiceIsSafe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := registerClient(t, m, "conn-1")
	unregisterClient(t, m, client)

	assert.NotPanics(t, func() { client.shutdown() })
}

func TestManagerPushDropsWhenBufferFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := registerClient(t, m, "conn-1")

	for i := 0; i < cap(client.Send); i++ {
		m.Push(client, []byte("fill"))
	}

	assert.NotPanics(t, func() {
		m.Push(client, []byte("overflow"))
	})
	assert.Len(t, client.Send, cap(client.Send))
}
