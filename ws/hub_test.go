package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string, buffer int) *Client {
	return &Client{UserID: userID, send: make(chan OutgoingMessage, buffer), hub: hub}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

func TestHub_SendToAllConnectionsOfUser(t *testing.T) {
	hub, _ := startHub(t)

	tab1 := newTestClient(hub, "user-1", 4)
	tab2 := newTestClient(hub, "user-1", 4)
	stranger := newTestClient(hub, "user-2", 4)
	for _, c := range []*Client{tab1, tab2, stranger} {
		require.True(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.IsConnected("user-2") }, time.Second, 5*time.Millisecond)

	n := hub.SendToUser("user-1", OutgoingMessage{Event: "notification", Data: "hi"})
	assert.Equal(t, 2, n)
	assert.Equal(t, "hi", (<-tab1.send).Data)
	assert.Equal(t, "hi", (<-tab2.send).Data)
	assert.Empty(t, stranger.send)

	assert.Zero(t, hub.SendToUser("offline", OutgoingMessage{Event: "notification"}))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)
	client := newTestClient(hub, "user-1", 1)
	require.True(t, hub.Register(client))

	hub.Unregister(client)
	require.Eventually(t, func() bool { return !hub.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)

	// повторный Unregister безопасен
	hub.Unregister(client)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _ := startHub(t)
	slow := newTestClient(hub, "user-1", 1)
	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, hub.SendToUser("user-1", OutgoingMessage{Event: "a"}))
	assert.Equal(t, 0, hub.SendToUser("user-1", OutgoingMessage{Event: "b"}))

	require.Eventually(t, func() bool { return !hub.IsConnected("user-1") }, time.Second, 5*time.Millisecond)
}

func TestHub_StopsOnContextCancel(t *testing.T) {
	hub, cancel := startHub(t)
	client := newTestClient(hub, "user-1", 1)
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	assert.False(t, hub.Register(newTestClient(hub, "user-2", 1)), "После остановки регистрация невозможна")
	hub.Unregister(client)
}
