package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovacev/ripple/internal/domain"
)

// recvEvent pops the next queued event off a client's send buffer.
func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func recvPresence(t *testing.T, c *Client) PresenceSnapshotPayload {
	t.Helper()
	evt := recvEvent(t, c)
	require.Equal(t, EventTypePresenceSnapshot, evt.Type)
	var p PresenceSnapshotPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	return p
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()
	return hub
}

func register(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	c.registered = true
	select {
	case hub.register <- c:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept registration")
	}
}

func TestHub_RegisterBroadcastsPresence(t *testing.T) {
	hub := startHub(t)
	alice := uuid.New()
	bob := uuid.New()

	a := NewClient(hub, nil, alice)
	register(t, hub, a)
	snapshot := recvPresence(t, a)
	assert.ElementsMatch(t, []uuid.UUID{alice}, snapshot.OnlineUserIDs)

	b := NewClient(hub, nil, bob)
	register(t, hub, b)

	// Both sessions see the updated online set.
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, recvPresence(t, a).OnlineUserIDs)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, recvPresence(t, b).OnlineUserIDs)
}

func TestHub_UnregisterBroadcastsPresence(t *testing.T) {
	hub := startHub(t)
	alice := uuid.New()
	bob := uuid.New()

	a := NewClient(hub, nil, alice)
	register(t, hub, a)
	recvPresence(t, a)

	b := NewClient(hub, nil, bob)
	register(t, hub, b)
	recvPresence(t, a)
	recvPresence(t, b)

	select {
	case hub.unregister <- b:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept unregistration")
	}

	snapshot := recvPresence(t, a)
	assert.ElementsMatch(t, []uuid.UUID{alice}, snapshot.OnlineUserIDs)

	require.Eventually(t, func() bool {
		_, ok := hub.Registry().Lookup(bob)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestHub_SecondSessionSupersedesFirst(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()

	first := NewClient(hub, nil, user)
	register(t, hub, first)
	recvPresence(t, first)

	second := NewClient(hub, nil, user)
	register(t, hub, second)

	// The displaced session is shut down by the hub.
	select {
	case <-first.done:
	case <-time.After(time.Second):
		t.Fatal("displaced session was not shut down")
	}

	// Delivery reaches only the surviving session.
	msg := &domain.Message{ID: uuid.New(), SenderID: uuid.New(), Text: "hello"}
	assert.True(t, hub.DeliverMessage(user, msg))

	evt := recvEvent(t, second)
	// A presence snapshot from the replacing registration may arrive first.
	if evt.Type == EventTypePresenceSnapshot {
		evt = recvEvent(t, second)
	}
	require.Equal(t, EventTypeMessageDeliver, evt.Type)

	var p DeliverPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, msg.ID, p.ID)
	assert.Equal(t, "hello", p.Text)
}

func TestHub_DisconnectAfterReplaceKeepsNewSession(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()

	first := NewClient(hub, nil, user)
	register(t, hub, first)
	recvPresence(t, first)

	second := NewClient(hub, nil, user)
	register(t, hub, second)

	// The displaced session's disconnect cleanup races in afterwards; the
	// surviving session must stay registered.
	select {
	case hub.unregister <- first:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept unregistration")
	}

	require.Eventually(t, func() bool {
		got, ok := hub.Registry().Lookup(user)
		return ok && got == second
	}, time.Second, 10*time.Millisecond)
}

func TestHub_DeliveryMissWhenOffline(t *testing.T) {
	hub := startHub(t)

	msg := &domain.Message{ID: uuid.New(), Text: "nobody home"}
	assert.False(t, hub.DeliverMessage(uuid.New(), msg))

	n := &domain.Notification{ID: uuid.New(), Type: domain.NotificationTypeLike}
	assert.False(t, hub.DeliverNotification(uuid.New(), n))
}

func TestHub_DeliverNotification(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()

	c := NewClient(hub, nil, user)
	register(t, hub, c)
	recvPresence(t, c)

	n := &domain.Notification{
		ID:       uuid.New(),
		UserID:   user,
		SenderID: uuid.New(),
		Type:     domain.NotificationTypeFollow,
	}
	assert.True(t, hub.DeliverNotification(user, n))

	evt := recvEvent(t, c)
	require.Equal(t, EventTypeNotificationNew, evt.Type)

	var p NotificationPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, n.ID, p.ID)
	assert.Equal(t, domain.NotificationTypeFollow, p.Type)
}

func TestClient_TrySendAfterShutdown(t *testing.T) {
	c := newBareClient(uuid.New())
	assert.True(t, c.trySend([]byte(`{"type":"pong"}`)))

	c.shutdown(4000, "test")
	assert.False(t, c.trySend([]byte(`{"type":"pong"}`)), "a closed session accepts nothing")

	// shutdown is idempotent.
	c.shutdown(4000, "test")
}

func TestClient_TrySendFullBufferDropsEvent(t *testing.T) {
	c := newBareClient(uuid.New())
	for i := 0; i < sendBufSize; i++ {
		require.True(t, c.trySend([]byte("x")))
	}
	assert.False(t, c.trySend([]byte("overflow")), "a slow consumer must not block the sender")
}
