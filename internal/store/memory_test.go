package store

import (
	"context"
	"testing"
	"time"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, m *Memory, username string, mutate func(*NewUser)) models.User {
	t.Helper()

	data := NewUser{
		Username:        username,
		Email:           username + "@example.com",
		PasswordHash:    "hash",
		FirstName:       username,
		LastName:        "Dev",
		Title:           "Developer",
		ExperienceLevel: models.ExperienceIntermediate,
	}
	if mutate != nil {
		mutate(&data)
	}
	u, err := m.CreateUser(context.Background(), data)
	require.NoError(t, err)
	return u
}

func TestMemoryUsers(t *testing.T) {
	t.Run("lookup by id, username and email", func(t *testing.T) {
		m := NewMemory()
		u := seedUser(t, m, "alice", nil)

		byID, err := m.GetUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byID.ID)

		byName, err := m.GetUserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		byEmail, err := m.GetUserByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		_, err = m.GetUser(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate username or email rejected", func(t *testing.T) {
		m := NewMemory()
		seedUser(t, m, "alice", nil)

		_, err := m.CreateUser(context.Background(), NewUser{
			Username: "alice", Email: "other@example.com",
			PasswordHash: "hash", FirstName: "A", LastName: "B",
			Title: "Dev", ExperienceLevel: models.ExperienceBeginner,
		})
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		m := NewMemory()
		u := seedUser(t, m, "alice", nil)

		title := "Staff Engineer"
		updated, err := m.UpdateUser(context.Background(), u.ID, UserUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Staff Engineer", updated.Title)
		assert.Equal(t, u.Username, updated.Username)
		assert.Equal(t, u.ExperienceLevel, updated.ExperienceLevel)
	})

	t.Run("search filters compose", func(t *testing.T) {
		m := NewMemory()
		seedUser(t, m, "gopher", func(d *NewUser) {
			d.Skills = []string{"Go", "PostgreSQL"}
			d.ExperienceLevel = models.ExperienceProfessional
			d.OpenToCollaborate = true
		})
		seedUser(t, m, "pythonista", func(d *NewUser) {
			d.Skills = []string{"Python"}
			d.ExperienceLevel = models.ExperienceBeginner
		})

		results, err := m.SearchUsers(context.Background(), SearchFilter{Skills: []string{"go"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "gopher", results[0].Username)

		results, err = m.SearchUsers(context.Background(), SearchFilter{
			ExperienceLevels: []string{models.ExperienceBeginner},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "pythonista", results[0].Username)

		results, err = m.SearchUsers(context.Background(), SearchFilter{Query: "gopher"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("online status updates last seen", func(t *testing.T) {
		m := NewMemory()
		u := seedUser(t, m, "alice", nil)

		later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		m.SetNow(func() time.Time { return later })

		require.NoError(t, m.SetOnlineStatus(context.Background(), u.ID, true))
		stored, err := m.GetUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsOnline)
		assert.Equal(t, later, stored.LastSeen)

		assert.ErrorIs(t, m.SetOnlineStatus(context.Background(), "missing", true), ErrNotFound)
	})
}

func TestMemoryConnections(t *testing.T) {
	t.Run("pair lookup is unordered", func(t *testing.T) {
		m := NewMemory()
		alice := seedUser(t, m, "alice", nil)
		bob := seedUser(t, m, "bob", nil)

		inserted, err := m.InsertConnection(context.Background(), NewConnection{
			RequesterID: alice.ID, ReceiverID: bob.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, inserted.Status)

		forward, err := m.GetConnection(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		reverse, err := m.GetConnection(context.Background(), bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, forward.ID, reverse.ID)
	})

	t.Run("insert enforces one edge per pair", func(t *testing.T) {
		m := NewMemory()
		alice := seedUser(t, m, "alice", nil)
		bob := seedUser(t, m, "bob", nil)

		_, err := m.InsertConnection(context.Background(), NewConnection{RequesterID: alice.ID, ReceiverID: bob.ID})
		require.NoError(t, err)

		_, err = m.InsertConnection(context.Background(), NewConnection{RequesterID: bob.ID, ReceiverID: alice.ID})
		assert.ErrorIs(t, err, ErrDuplicateConnection)
	})

	t.Run("status update only matches pending rows", func(t *testing.T) {
		m := NewMemory()
		alice := seedUser(t, m, "alice", nil)
		bob := seedUser(t, m, "bob", nil)

		conn, err := m.InsertConnection(context.Background(), NewConnection{RequesterID: alice.ID, ReceiverID: bob.ID})
		require.NoError(t, err)

		accepted, err := m.UpdateConnectionStatus(context.Background(), conn.ID, models.ConnectionAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, accepted.Status)

		// A second swap misses: the row is no longer pending
		_, err = m.UpdateConnectionStatus(context.Background(), conn.ID, models.ConnectionDeclined)
		assert.ErrorIs(t, err, ErrNotFound)

		stored, err := m.GetConnectionByID(context.Background(), conn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, stored.Status)
	})

	t.Run("accepted listing resolves counterpart users", func(t *testing.T) {
		m := NewMemory()
		alice := seedUser(t, m, "alice", nil)
		bob := seedUser(t, m, "bob", nil)
		carol := seedUser(t, m, "carol", nil)

		c1, err := m.InsertConnection(context.Background(), NewConnection{RequesterID: alice.ID, ReceiverID: bob.ID})
		require.NoError(t, err)
		_, err = m.UpdateConnectionStatus(context.Background(), c1.ID, models.ConnectionAccepted)
		require.NoError(t, err)

		_, err = m.InsertConnection(context.Background(), NewConnection{RequesterID: carol.ID, ReceiverID: alice.ID})
		require.NoError(t, err)

		peers, err := m.AcceptedConnections(context.Background(), alice.ID)
		require.NoError(t, err)
		require.Len(t, peers, 1)
		assert.Equal(t, bob.ID, peers[0].ID)
	})
}

func TestMemoryMessages(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T) (*Memory, models.User, models.User, *time.Time) {
		m := NewMemory()
		now := base
		m.SetNow(func() time.Time { return now })
		alice := seedUser(t, m, "alice", nil)
		bob := seedUser(t, m, "bob", nil)
		return m, alice, bob, &now
	}

	t.Run("unread query is newest first and sender scoped", func(t *testing.T) {
		m, alice, bob, now := seed(t)

		_, err := m.InsertMessage(context.Background(), NewMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "old"})
		require.NoError(t, err)
		*now = base.Add(time.Minute)
		_, err = m.InsertMessage(context.Background(), NewMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "new"})
		require.NoError(t, err)

		unread, err := m.UnreadMessages(context.Background(), bob.ID, "")
		require.NoError(t, err)
		require.Len(t, unread, 2)
		assert.Equal(t, "new", unread[0].Content)

		scoped, err := m.UnreadMessages(context.Background(), bob.ID, "someone-else")
		require.NoError(t, err)
		assert.Empty(t, scoped)
	})

	t.Run("mark read reports affected rows", func(t *testing.T) {
		m, alice, bob, _ := seed(t)

		_, err := m.InsertMessage(context.Background(), NewMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "one"})
		require.NoError(t, err)
		_, err = m.InsertMessage(context.Background(), NewMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "two"})
		require.NoError(t, err)

		updated, err := m.MarkRead(context.Background(), bob.ID, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, updated)

		count, err := m.CountUnread(context.Background(), bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("between returns both directions chronologically", func(t *testing.T) {
		m, alice, bob, now := seed(t)

		_, err := m.InsertMessage(context.Background(), NewMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "hi"})
		require.NoError(t, err)
		*now = base.Add(time.Minute)
		_, err = m.InsertMessage(context.Background(), NewMessage{SenderID: bob.ID, ReceiverID: alice.ID, Content: "hey"})
		require.NoError(t, err)

		between, err := m.MessagesBetween(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, between, 2)
		assert.Equal(t, "hi", between[0].Content)
		assert.Equal(t, "hey", between[1].Content)
	})
}
