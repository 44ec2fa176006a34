package connections

import (
	"context"
	"testing"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*store.Memory, *Service) {
	t.Helper()

	st := store.NewMemory()
	return st, NewService(st)
}

func createUser(t *testing.T, st *store.Memory, username string) models.User {
	t.Helper()

	u, err := st.CreateUser(context.Background(), store.NewUser{
		Username:        username,
		Email:           username + "@example.com",
		PasswordHash:    "hash",
		FirstName:       username,
		LastName:        "Dev",
		Title:           "Developer",
		ExperienceLevel: models.ExperienceBeginner,
	})
	require.NoError(t, err)
	return u
}

func TestRequest(t *testing.T) {
	t.Run("creates pending connection", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		note := "let's collaborate"
		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, &note)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, conn.Status)
		assert.Equal(t, alice.ID, conn.RequesterID)
		assert.Equal(t, bob.ID, conn.ReceiverID)
		require.NotNil(t, conn.Message)
		assert.Equal(t, note, *conn.Message)
		assert.False(t, conn.CreatedAt.IsZero())
	})

	t.Run("rejects self connection", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")

		_, err := svc.Request(context.Background(), alice.ID, alice.ID, nil)
		assert.ErrorIs(t, err, ErrSelfConnection)
	})

	t.Run("rejects unknown receiver", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")

		_, err := svc.Request(context.Background(), alice.ID, "missing-user", nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejects duplicate in either direction", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		_, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)

		_, err = svc.Request(context.Background(), alice.ID, bob.ID, nil)
		assert.ErrorIs(t, err, store.ErrDuplicateConnection)

		// Reversed direction hits the same edge
		_, err = svc.Request(context.Background(), bob.ID, alice.ID, nil)
		assert.ErrorIs(t, err, store.ErrDuplicateConnection)
	})

	t.Run("rejects duplicate even after the edge was resolved", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)
		_, err = svc.Respond(context.Background(), conn.ID, models.ConnectionDeclined)
		require.NoError(t, err)

		_, err = svc.Request(context.Background(), bob.ID, alice.ID, nil)
		assert.ErrorIs(t, err, store.ErrDuplicateConnection)
	})
}

func TestRespond(t *testing.T) {
	t.Run("accepts a pending connection", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)

		updated, err := svc.Respond(context.Background(), conn.ID, models.ConnectionAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(conn.UpdatedAt))
	})

	t.Run("declines a pending connection", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)

		updated, err := svc.Respond(context.Background(), conn.ID, models.ConnectionDeclined)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionDeclined, updated.Status)
	})

	t.Run("rejects unknown connection", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.Respond(context.Background(), "missing-connection", models.ConnectionAccepted)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejects invalid status values", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)

		for _, status := range []string{models.ConnectionPending, "cancelled", ""} {
			_, err := svc.Respond(context.Background(), conn.ID, status)
			assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", status)
		}
	})

	t.Run("terminal state never transitions again", func(t *testing.T) {
		st, svc := newService(t)
		alice := createUser(t, st, "alice")
		bob := createUser(t, st, "bob")

		conn, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
		require.NoError(t, err)

		_, err = svc.Respond(context.Background(), conn.ID, models.ConnectionDeclined)
		require.NoError(t, err)

		_, err = svc.Respond(context.Background(), conn.ID, models.ConnectionAccepted)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// Stored status is untouched
		stored, err := st.GetConnectionByID(context.Background(), conn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionDeclined, stored.Status)
	})
}

func TestListings(t *testing.T) {
	st, svc := newService(t)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	carol := createUser(t, st, "carol")

	// alice->bob accepted, carol->alice pending
	accepted, err := svc.Request(context.Background(), alice.ID, bob.ID, nil)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), accepted.ID, models.ConnectionAccepted)
	require.NoError(t, err)

	_, err = svc.Request(context.Background(), carol.ID, alice.ID, nil)
	require.NoError(t, err)

	all, err := svc.ByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.PendingFor(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, carol.ID, pending[0].Requester.ID)
	assert.Equal(t, models.ConnectionPending, pending[0].Status)

	peers, err := svc.AcceptedFor(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, bob.ID, peers[0].ID)
}
