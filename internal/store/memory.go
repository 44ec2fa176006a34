package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"

	"github.com/google/uuid"
)

// Memory is an in-memory EntityStore. It backs the test suite and local runs
// without Postgres, and enforces the same invariants as the Postgres store:
// one connection edge per unordered pair and compare-and-swap status updates.
type Memory struct {
	mu          sync.RWMutex
	users       map[string]models.User
	connections map[string]models.Connection
	messages    []models.Message
	now         func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]models.User),
		connections: make(map[string]models.Connection),
		now:         time.Now,
	}
}

// SetNow overrides the store clock. Tests use it to pin message timestamps.
func (m *Memory) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) GetUser(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) CreateUser(ctx context.Context, data NewUser) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == data.Username || u.Email == data.Email {
			return models.User{}, ErrDuplicateUser
		}
	}

	skills := data.Skills
	if skills == nil {
		skills = []string{}
	}

	now := m.now()
	u := models.User{
		ID:                uuid.NewString(),
		Username:          data.Username,
		Email:             data.Email,
		Password:          data.PasswordHash,
		FirstName:         data.FirstName,
		LastName:          data.LastName,
		Title:             data.Title,
		Bio:               data.Bio,
		ExperienceLevel:   data.ExperienceLevel,
		Skills:            skills,
		ProfileImage:      data.ProfileImage,
		OpenToCollaborate: data.OpenToCollaborate,
		LastSeen:          now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UpdateUser(ctx context.Context, id string, updates UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}

	if updates.FirstName != nil {
		u.FirstName = *updates.FirstName
	}
	if updates.LastName != nil {
		u.LastName = *updates.LastName
	}
	if updates.Title != nil {
		u.Title = *updates.Title
	}
	if updates.Bio != nil {
		u.Bio = updates.Bio
	}
	if updates.ExperienceLevel != nil {
		u.ExperienceLevel = *updates.ExperienceLevel
	}
	if updates.Skills != nil {
		u.Skills = updates.Skills
	}
	if updates.ProfileImage != nil {
		u.ProfileImage = updates.ProfileImage
	}
	if updates.OpenToCollaborate != nil {
		u.OpenToCollaborate = *updates.OpenToCollaborate
	}
	u.UpdatedAt = m.now()

	m.users[id] = u
	return u, nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) SearchUsers(ctx context.Context, filter SearchFilter) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []models.User{}
	for _, u := range m.users {
		if matchesFilter(u, filter) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func matchesFilter(u models.User, filter SearchFilter) bool {
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		hit := strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Title), q) ||
			(u.Bio != nil && strings.Contains(strings.ToLower(*u.Bio), q))
		for _, s := range u.Skills {
			hit = hit || strings.Contains(strings.ToLower(s), q)
		}
		if !hit {
			return false
		}
	}
	if len(filter.ExperienceLevels) > 0 && !containsString(filter.ExperienceLevels, u.ExperienceLevel) {
		return false
	}
	if len(filter.Skills) > 0 {
		hit := false
		for _, want := range filter.Skills {
			hit = hit || containsString(u.Skills, want)
		}
		if !hit {
			return false
		}
	}
	if filter.OpenToCollaborate != nil && u.OpenToCollaborate != *filter.OpenToCollaborate {
		return false
	}
	if filter.IsOnline != nil && u.IsOnline != *filter.IsOnline {
		return false
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func (m *Memory) SetOnlineStatus(ctx context.Context, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsOnline = online
	u.LastSeen = m.now()
	u.UpdatedAt = u.LastSeen
	m.users[id] = u
	return nil
}

func (m *Memory) GetConnection(ctx context.Context, userA, userB string) (models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.findPairLocked(userA, userB)
	if !ok {
		return models.Connection{}, ErrNotFound
	}
	return c, nil
}

// findPairLocked performs the unordered-pair lookup: (A,B) and (B,A) are the
// same edge.
func (m *Memory) findPairLocked(userA, userB string) (models.Connection, bool) {
	for _, c := range m.connections {
		if (c.RequesterID == userA && c.ReceiverID == userB) ||
			(c.RequesterID == userB && c.ReceiverID == userA) {
			return c, true
		}
	}
	return models.Connection{}, false
}

func (m *Memory) GetConnectionByID(ctx context.Context, id string) (models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.connections[id]
	if !ok {
		return models.Connection{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) ConnectionsByUser(ctx context.Context, userID string) ([]models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connections := []models.Connection{}
	for _, c := range m.connections {
		if c.RequesterID == userID || c.ReceiverID == userID {
			connections = append(connections, c)
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		return connections[i].CreatedAt.After(connections[j].CreatedAt)
	})
	return connections, nil
}

func (m *Memory) PendingRequests(ctx context.Context, userID string) ([]models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connections := []models.Connection{}
	for _, c := range m.connections {
		if c.ReceiverID == userID && c.Status == models.ConnectionPending {
			connections = append(connections, c)
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		return connections[i].CreatedAt.After(connections[j].CreatedAt)
	})
	return connections, nil
}

func (m *Memory) AcceptedConnections(ctx context.Context, userID string) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []models.User{}
	for _, c := range m.connections {
		if c.Status != models.ConnectionAccepted {
			continue
		}
		if c.RequesterID != userID && c.ReceiverID != userID {
			continue
		}
		if u, ok := m.users[c.Counterpart(userID)]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *Memory) InsertConnection(ctx context.Context, data NewConnection) (models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.findPairLocked(data.RequesterID, data.ReceiverID); exists {
		return models.Connection{}, ErrDuplicateConnection
	}

	now := m.now()
	c := models.Connection{
		ID:          uuid.NewString(),
		RequesterID: data.RequesterID,
		ReceiverID:  data.ReceiverID,
		Status:      models.ConnectionPending,
		Message:     data.Message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.connections[c.ID] = c
	return c, nil
}

func (m *Memory) UpdateConnectionStatus(ctx context.Context, id, status string) (models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.connections[id]
	if !ok || c.Status != models.ConnectionPending {
		// CAS contract: only a pending row matches
		return models.Connection{}, ErrNotFound
	}

	c.Status = status
	c.UpdatedAt = m.now()
	m.connections[id] = c
	return c, nil
}

func (m *Memory) InsertMessage(ctx context.Context, data NewMessage) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := models.Message{
		ID:         uuid.NewString(),
		SenderID:   data.SenderID,
		ReceiverID: data.ReceiverID,
		Content:    data.Content,
		IsRead:     false,
		CreatedAt:  m.now(),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *Memory) MessagesWith(ctx context.Context, userID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := []models.Message{}
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (m *Memory) MessagesBetween(ctx context.Context, userA, userB string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := []models.Message{}
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			messages = append(messages, msg)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (m *Memory) UnreadMessages(ctx context.Context, receiverID, senderID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := []models.Message{}
	for _, msg := range m.messages {
		if msg.ReceiverID != receiverID || msg.IsRead {
			continue
		}
		if senderID != "" && msg.SenderID != senderID {
			continue
		}
		messages = append(messages, msg)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (m *Memory) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var updated int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.ReceiverID != receiverID || msg.IsRead {
			continue
		}
		if senderID != "" && msg.SenderID != senderID {
			continue
		}
		msg.IsRead = true
		updated++
	}
	return updated, nil
}

func (m *Memory) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

var _ EntityStore = (*Memory)(nil)
