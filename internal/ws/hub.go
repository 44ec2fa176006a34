package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
)

// Hub maintains the set of active clients and fans presence and message
// events out to them. One client per user: a new connection replaces the
// previous one.
type Hub struct {
	store store.EntityStore

	// Registered clients mapped by user ID
	clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub over the given store
func NewHub(st store.EntityStore) *Hub {
	return &Hub{
		store:      st,
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If user already has a connection, close the old one
	if existing, ok := h.clients[client.ID]; ok {
		existing.closeSend()
	}

	h.clients[client.ID] = client

	if err := h.store.SetOnlineStatus(context.Background(), client.ID, true); err != nil {
		log.Printf("Failed to update online status: %v", err)
	}

	h.broadcastPresence(client.ID, true)

	log.Printf("Client connected: %s", client.ID)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(client)
}

// dropLocked evicts a client and records them offline. It is the single
// place a registered client is removed, so every teardown path gets the
// same presence bookkeeping. Caller must hold h.mu. The pointer check means
// a replaced connection unregistering late cannot evict its successor.
func (h *Hub) dropLocked(client *Client) {
	current, ok := h.clients[client.ID]
	if !ok || current != client {
		return
	}

	delete(h.clients, client.ID)
	client.closeSend()

	if err := h.store.SetOnlineStatus(context.Background(), client.ID, false); err != nil {
		log.Printf("Failed to update offline status: %v", err)
	}

	h.broadcastPresence(client.ID, false)

	log.Printf("Client disconnected: %s", client.ID)
}

// broadcastPresence sends the user's online/offline status to everyone they
// share an accepted connection with. Caller must hold h.mu.
func (h *Hub) broadcastPresence(userID string, isOnline bool) {
	peers, err := h.store.AcceptedConnections(context.Background(), userID)
	if err != nil {
		log.Printf("Failed to get connections for presence: %v", err)
		return
	}

	eventType := EventUserOnline
	if !isOnline {
		eventType = EventUserOffline
	}

	message := WSMessage{
		Type: eventType,
		Payload: PresencePayload{
			UserID:   userID,
			IsOnline: isOnline,
			LastSeen: time.Now(),
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, peer := range peers {
		if client, ok := h.clients[peer.ID]; ok {
			h.sendData(client, data)
		}
	}
}

// PushMessage delivers a freshly stored direct message to the receiver when
// they are connected.
func (h *Hub) PushMessage(msg models.Message) {
	h.mu.RLock()
	client, ok := h.clients[msg.ReceiverID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	client.SendMessage(WSMessage{
		Type:      EventMessageReceived,
		Payload:   MessagePayload{Message: msg},
		Timestamp: time.Now(),
	})
}

// SendToUser delivers an event to one user when connected.
func (h *Hub) SendToUser(userID string, msg WSMessage) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if ok {
		client.SendMessage(msg)
	}
}

func (h *Hub) sendData(client *Client, data []byte) {
	if client.trySend(data) {
		return
	}

	// Slow consumer: drop the connection with full offline bookkeeping
	h.dropLocked(client)
}

// OnlineCount returns the number of connected clients
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineUsers returns the ids of connected users
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
