package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
)

func newHub(t *testing.T) (*store.Memory, *Hub) {
	t.Helper()
	st := store.NewMemory()
	hub := NewHub(st)
	go hub.Run()
	return st, hub
}

func seedUser(t *testing.T, st *store.Memory, username string) models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), store.NewUser{
		Username:        username,
		Email:           username + "@example.com",
		PasswordHash:    "x",
		FirstName:       username,
		LastName:        "dev",
		ExperienceLevel: models.ExperienceBeginner,
	})
	require.NoError(t, err)
	return u
}

func fillSendBuffer(c *Client) {
	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("{}")
	}
}

func waitOnline(t *testing.T, st *store.Memory, userID string, online bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		u, err := st.GetUser(context.Background(), userID)
		return err == nil && u.IsOnline == online
	}, time.Second, 10*time.Millisecond)
}

func TestReconnectReplacesClient(t *testing.T) {
	st, hub := newHub(t)
	user := seedUser(t, st, "alice")

	first := NewClient(user.ID, nil, hub)
	hub.Register <- first
	waitOnline(t, st, user.ID, true)

	second := NewClient(user.ID, nil, hub)
	hub.Register <- second

	// The replaced connection gets its channel closed
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-first.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// The stale connection unregistering late must not evict its successor
	hub.Unregister <- first

	require.Eventually(t, func() bool { return hub.OnlineCount() == 1 }, time.Second, 10*time.Millisecond)
	waitOnline(t, st, user.ID, true)

	// Deliveries land on the new connection
	hub.PushMessage(models.Message{ID: "m1", SenderID: "other", ReceiverID: user.ID, Content: "hi"})
	require.Eventually(t, func() bool {
		select {
		case data, ok := <-second.Send:
			return ok && len(data) > 0
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestSlowConsumerEvictedOnPush(t *testing.T) {
	st, hub := newHub(t)
	user := seedUser(t, st, "bob")

	client := NewClient(user.ID, nil, hub)
	hub.Register <- client
	waitOnline(t, st, user.ID, true)

	fillSendBuffer(client)

	// A push against a full buffer drops the connection instead of panicking
	hub.PushMessage(models.Message{ID: "m1", SenderID: "other", ReceiverID: user.ID, Content: "hi"})

	require.Eventually(t, func() bool { return hub.OnlineCount() == 0 }, time.Second, 10*time.Millisecond)
	waitOnline(t, st, user.ID, false)

	// Pushing again with nobody connected is a no-op
	hub.PushMessage(models.Message{ID: "m2", SenderID: "other", ReceiverID: user.ID, Content: "again"})
	assert.Equal(t, 0, hub.OnlineCount())
}

func TestSlowPeerDroppedDuringPresenceBroadcast(t *testing.T) {
	st, hub := newHub(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	conn, err := st.InsertConnection(context.Background(), store.NewConnection{
		RequesterID: alice.ID,
		ReceiverID:  bob.ID,
	})
	require.NoError(t, err)
	_, err = st.UpdateConnectionStatus(context.Background(), conn.ID, models.ConnectionAccepted)
	require.NoError(t, err)

	bobClient := NewClient(bob.ID, nil, hub)
	hub.Register <- bobClient
	waitOnline(t, st, bob.ID, true)
	fillSendBuffer(bobClient)

	// Alice coming online broadcasts presence to bob, whose buffer is full;
	// bob is evicted and recorded offline rather than left dangling
	aliceClient := NewClient(alice.ID, nil, hub)
	hub.Register <- aliceClient

	waitOnline(t, st, bob.ID, false)
	require.Eventually(t, func() bool { return hub.OnlineCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{alice.ID}, hub.OnlineUsers())
}
