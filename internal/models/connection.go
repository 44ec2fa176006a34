package models

import "time"

// Connection request lifecycle: pending is the initial state, accepted and
// declined are terminal.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// Connection represents a connection edge between two users. The pair
// (requester, receiver) is unique regardless of direction: at most one edge
// exists per pair of users.
type Connection struct {
	ID          string    `json:"id" db:"id"`
	RequesterID string    `json:"requesterId" db:"requester_id"`
	ReceiverID  string    `json:"receiverId" db:"receiver_id"`
	Status      string    `json:"status" db:"status"` // 'pending', 'accepted', 'declined'
	Message     *string   `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsTerminal reports whether the connection has been resolved
func (c *Connection) IsTerminal() bool {
	return c.Status == ConnectionAccepted || c.Status == ConnectionDeclined
}

// Counterpart returns the other participant of the edge
func (c *Connection) Counterpart(userID string) string {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}

// ConnectionWithUser includes the counterpart's profile for listings
type ConnectionWithUser struct {
	ID        string       `json:"id"`
	Requester UserResponse `json:"requester"`
	Status    string       `json:"status"`
	Message   *string      `json:"message,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
