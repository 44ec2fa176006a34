package ws

import (
	"time"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Message events
	EventMessageReceived EventType = "message_received"

	// Typing events
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"

	// Presence events
	EventUserOnline  EventType = "user_online"
	EventUserOffline EventType = "user_offline"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessagePayload carries a freshly delivered direct message
type MessagePayload struct {
	Message models.Message `json:"message"`
}

// TypingPayload represents typing indicator payload
type TypingPayload struct {
	UserID string `json:"userId"`
	ChatID string `json:"chatId"`
}

// PresencePayload represents user presence payload
type PresencePayload struct {
	UserID   string    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}

// IncomingMessage represents messages received from clients
type IncomingMessage struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}
