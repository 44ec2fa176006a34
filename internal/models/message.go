package models

import "time"

// Message represents a direct message between two users
type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Conversation is a derived per-counterpart summary: the most recent message
// exchanged with that user and how many of their messages are still unread.
// It is recomputed on every read and never stored.
type Conversation struct {
	User        UserResponse `json:"user"`
	LastMessage Message      `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}

// NotificationItem is a derived per-sender feed entry: the most recent
// unread message from that sender and a running unread count.
type NotificationItem struct {
	User              UserResponse `json:"user"`
	LastUnreadMessage Message      `json:"lastUnreadMessage"`
	UnreadCount       int          `json:"unreadCount"`
}
