// Package connections governs the lifecycle of connection requests between
// developers: pending on creation, then accepted or declined exactly once.
package connections

import (
	"context"
	"errors"
	"fmt"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
)

var (
	// ErrSelfConnection means a user tried to connect with themselves
	ErrSelfConnection = errors.New("cannot create a connection with yourself")

	// ErrInvalidStatus means the requested status is not accepted or declined
	ErrInvalidStatus = errors.New("status must be accepted or declined")

	// ErrInvalidTransition means the connection was already accepted or
	// declined; terminal states never transition again
	ErrInvalidTransition = errors.New("connection has already been resolved")
)

// Service implements the connection state machine over an entity store.
type Service struct {
	store store.EntityStore
}

// NewService creates a connection service backed by st.
func NewService(st store.EntityStore) *Service {
	return &Service{store: st}
}

// Request creates a pending connection from requester to receiver. It fails
// with ErrSelfConnection when both ids match, store.ErrNotFound when the
// receiver does not exist, and store.ErrDuplicateConnection when an edge
// already exists between the pair in either direction, whatever its status.
func (s *Service) Request(ctx context.Context, requesterID, receiverID string, message *string) (models.Connection, error) {
	if requesterID == receiverID {
		return models.Connection{}, ErrSelfConnection
	}

	if _, err := s.store.GetUser(ctx, receiverID); err != nil {
		return models.Connection{}, fmt.Errorf("receiver lookup: %w", err)
	}

	_, err := s.store.GetConnection(ctx, requesterID, receiverID)
	if err == nil {
		return models.Connection{}, store.ErrDuplicateConnection
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Connection{}, err
	}

	// The store's unique pair index backs this up: a racing create for the
	// same pair still surfaces as ErrDuplicateConnection.
	return s.store.InsertConnection(ctx, store.NewConnection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Message:     message,
	})
}

// Respond transitions a pending connection to accepted or declined. A
// connection that is already terminal fails with ErrInvalidTransition and
// keeps its stored status.
func (s *Service) Respond(ctx context.Context, id, status string) (models.Connection, error) {
	if status != models.ConnectionAccepted && status != models.ConnectionDeclined {
		return models.Connection{}, ErrInvalidStatus
	}

	current, err := s.store.GetConnectionByID(ctx, id)
	if err != nil {
		return models.Connection{}, err
	}
	if current.IsTerminal() {
		return models.Connection{}, ErrInvalidTransition
	}

	updated, err := s.store.UpdateConnectionStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		// The CAS missed: another transition resolved it first.
		return models.Connection{}, ErrInvalidTransition
	}
	if err != nil {
		return models.Connection{}, err
	}
	return updated, nil
}

// ByUser lists every connection the user participates in, any status.
func (s *Service) ByUser(ctx context.Context, userID string) ([]models.Connection, error) {
	return s.store.ConnectionsByUser(ctx, userID)
}

// PendingFor lists pending requests addressed to the user, each with the
// requester's profile attached. Requests whose requester no longer resolves
// are skipped.
func (s *Service) PendingFor(ctx context.Context, userID string) ([]models.ConnectionWithUser, error) {
	pending, err := s.store.PendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests := []models.ConnectionWithUser{}
	for _, conn := range pending {
		requester, err := s.store.GetUser(ctx, conn.RequesterID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		requests = append(requests, models.ConnectionWithUser{
			ID:        conn.ID,
			Requester: requester.ToResponse(),
			Status:    conn.Status,
			Message:   conn.Message,
			CreatedAt: conn.CreatedAt,
		})
	}
	return requests, nil
}

// AcceptedFor lists the users connected with userID through an accepted edge.
func (s *Service) AcceptedFor(ctx context.Context, userID string) ([]models.User, error) {
	return s.store.AcceptedConnections(ctx, userID)
}
