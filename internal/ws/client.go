package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Client represents a WebSocket client connection
type Client struct {
	ID   string // User ID
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   userID,
		Conn: conn,
		Hub:  hub,
		Send: make(chan []byte, 256),
	}
}

// trySend queues data for the write pump without blocking. It reports false
// only when a live client's buffer is full; a closed client swallows the
// data silently.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. All teardown paths go
// through here so a replaced or evicted client can never be closed twice.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			log.Printf("Failed to parse message: %v", err)
			continue
		}

		c.handleIncomingMessage(incoming)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncomingMessage processes different types of incoming messages
func (c *Client) handleIncomingMessage(msg IncomingMessage) {
	switch msg.Type {
	case EventTypingStart, EventTypingStop:
		c.forwardTyping(msg.Type, msg.Payload)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

// forwardTyping relays a typing indicator to the conversation counterpart
func (c *Client) forwardTyping(eventType EventType, payload map[string]interface{}) {
	chatID, _ := payload["chatId"].(string)
	if chatID == "" {
		return
	}

	c.Hub.SendToUser(chatID, WSMessage{
		Type: eventType,
		Payload: TypingPayload{
			UserID: c.ID,
			ChatID: chatID,
		},
		Timestamp: time.Now(),
	})
}

// SendMessage sends a message to the client. A client whose buffer is full
// is handed to the hub for teardown; the hub owns the channel close.
func (c *Client) SendMessage(msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if !c.trySend(data) {
		c.Hub.Unregister <- c
	}

	return nil
}
