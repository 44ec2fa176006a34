package store

import (
	"context"
	"errors"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
)

// Sentinel errors returned by EntityStore implementations. Handlers and
// services match them with errors.Is.
var (
	// ErrNotFound means the referenced user, connection or message does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateConnection means an edge already exists between the pair,
	// in either direction and in any status
	ErrDuplicateConnection = errors.New("connection already exists")

	// ErrDuplicateUser means the username or email is already taken
	ErrDuplicateUser = errors.New("username or email already registered")

	// ErrUnavailable wraps infrastructure failures (connectivity loss,
	// timeouts). Callers may surface it as a retryable condition.
	ErrUnavailable = errors.New("store unavailable")
)

// NewUser carries the fields needed to create a user. Password must already
// be hashed by the caller.
type NewUser struct {
	Username          string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Title             string
	Bio               *string
	ExperienceLevel   string
	Skills            []string
	ProfileImage      *string
	OpenToCollaborate bool
}

// UserUpdate is a partial profile update; nil fields are left unchanged.
type UserUpdate struct {
	FirstName         *string
	LastName          *string
	Title             *string
	Bio               *string
	ExperienceLevel   *string
	Skills            []string
	ProfileImage      *string
	OpenToCollaborate *bool
}

// SearchFilter narrows user searches. Zero values mean "no filter".
type SearchFilter struct {
	Query             string
	ExperienceLevels  []string
	Skills            []string
	OpenToCollaborate *bool
	IsOnline          *bool
}

// NewConnection carries the fields needed to create a pending connection edge.
type NewConnection struct {
	RequesterID string
	ReceiverID  string
	Message     *string
}

// NewMessage carries the fields needed to create an unread message.
type NewMessage struct {
	SenderID   string
	ReceiverID string
	Content    string
}

// EntityStore is the persistence contract for users, connections and
// messages. All aggregation logic works against read-only snapshots returned
// by this interface and never mutates them.
type EntityStore interface {
	// User operations
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, data NewUser) (models.User, error)
	UpdateUser(ctx context.Context, id string, updates UserUpdate) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, filter SearchFilter) ([]models.User, error)
	SetOnlineStatus(ctx context.Context, id string, online bool) error

	// Connection operations. GetConnection treats (a, b) and (b, a) as the
	// same edge; InsertConnection fails with ErrDuplicateConnection when an
	// edge already exists for the pair, including under concurrent inserts.
	// UpdateConnectionStatus is compare-and-swap on the pending state: it
	// returns ErrNotFound when no pending connection with the id exists, so
	// a terminal status is never overwritten.
	GetConnection(ctx context.Context, userA, userB string) (models.Connection, error)
	GetConnectionByID(ctx context.Context, id string) (models.Connection, error)
	ConnectionsByUser(ctx context.Context, userID string) ([]models.Connection, error)
	PendingRequests(ctx context.Context, userID string) ([]models.Connection, error)
	AcceptedConnections(ctx context.Context, userID string) ([]models.User, error)
	InsertConnection(ctx context.Context, data NewConnection) (models.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id, status string) (models.Connection, error)

	// Message operations. UnreadMessages returns unread messages addressed
	// to receiverID, newest first; senderID narrows to one sender when
	// non-empty. MarkRead flips the unread flag on the same set and returns
	// the number of rows it touched.
	InsertMessage(ctx context.Context, data NewMessage) (models.Message, error)
	MessagesWith(ctx context.Context, userID string) ([]models.Message, error)
	MessagesBetween(ctx context.Context, userA, userB string) ([]models.Message, error)
	UnreadMessages(ctx context.Context, receiverID, senderID string) ([]models.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
}
