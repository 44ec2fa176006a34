// Package messaging handles direct messages and the derived read models on
// top of them: per-counterpart conversation summaries and the per-sender
// unread notification feed. Both are pure derivations recomputed on every
// read, so they are never stale after a write.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
)

// MaxContentLength bounds message content in characters.
const MaxContentLength = 2000

var (
	// ErrEmptyContent means the message body is empty or whitespace only
	ErrEmptyContent = errors.New("message content cannot be empty")

	// ErrContentTooLong means the message body exceeds MaxContentLength
	ErrContentTooLong = fmt.Errorf("message content exceeds %d characters", MaxContentLength)
)

// Service implements messaging operations over an entity store.
type Service struct {
	store store.EntityStore
}

// NewService creates a messaging service backed by st.
func NewService(st store.EntityStore) *Service {
	return &Service{store: st}
}

// Send validates and stores a new unread message to receiverID.
func (s *Service) Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyContent
	}
	if len([]rune(content)) > MaxContentLength {
		return models.Message{}, ErrContentTooLong
	}

	if _, err := s.store.GetUser(ctx, receiverID); err != nil {
		return models.Message{}, fmt.Errorf("receiver lookup: %w", err)
	}

	return s.store.InsertMessage(ctx, store.NewMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
}

// History returns the messages exchanged between two users, oldest first.
func (s *Service) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return s.store.MessagesBetween(ctx, userA, userB)
}

// Conversations derives one summary per counterpart from the user's full
// message history: the latest message exchanged with them and the number of
// their messages still unread. A counterpart with nothing unread still
// appears as long as any message exists with them; counterparts whose user
// record no longer resolves are skipped. Output is sorted by the last
// message's timestamp, newest conversation first.
//
// The scan is a single pass keyed by counterpart id, O(n) in the number of
// messages. When two messages carry an identical timestamp the first one
// seen stays the last message; with full timestamp precision true ties are
// not expected, so no stronger tie-break is guaranteed.
func (s *Service) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	messages, err := s.store.MessagesWith(ctx, userID)
	if err != nil {
		return nil, err
	}

	type partial struct {
		last   models.Message
		unread int
	}

	byCounterpart := make(map[string]*partial)
	order := []string{}

	for _, msg := range messages {
		counterpart := msg.SenderID
		if counterpart == userID {
			counterpart = msg.ReceiverID
		}

		p, ok := byCounterpart[counterpart]
		if !ok {
			p = &partial{last: msg}
			byCounterpart[counterpart] = p
			order = append(order, counterpart)
		} else if msg.CreatedAt.After(p.last.CreatedAt) {
			p.last = msg
		}

		if msg.ReceiverID == userID && !msg.IsRead {
			p.unread++
		}
	}

	conversations := []models.Conversation{}
	for _, counterpart := range order {
		user, err := s.store.GetUser(ctx, counterpart)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		p := byCounterpart[counterpart]
		conversations = append(conversations, models.Conversation{
			User:        user.ToResponse(),
			LastMessage: p.last,
			UnreadCount: p.unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations, nil
}

// NotificationFeed derives one entry per sender with unread messages
// addressed to the user: their most recent unread message and a running
// unread count. The feed orders senders by their latest unread message,
// most recently active first. Senders whose user record no longer resolves
// are skipped; zero unread messages yields an empty feed.
//
// The builder sorts its input newest-first itself rather than relying on
// store ordering, so the first message seen per sender is always the most
// recent unread one.
func (s *Service) NotificationFeed(ctx context.Context, userID string) ([]models.NotificationItem, error) {
	unread, err := s.store.UnreadMessages(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	sort.SliceStable(unread, func(i, j int) bool {
		return unread[i].CreatedAt.After(unread[j].CreatedAt)
	})

	bySender := make(map[string]*models.NotificationItem)
	feed := []models.NotificationItem{}
	order := []string{}

	for _, msg := range unread {
		item, seen := bySender[msg.SenderID]
		if seen {
			if item != nil {
				item.UnreadCount++
			}
			continue
		}

		sender, err := s.store.GetUser(ctx, msg.SenderID)
		if errors.Is(err, store.ErrNotFound) {
			bySender[msg.SenderID] = nil
			continue
		}
		if err != nil {
			return nil, err
		}

		bySender[msg.SenderID] = &models.NotificationItem{
			User:              sender.ToResponse(),
			LastUnreadMessage: msg,
			UnreadCount:       1,
		}
		order = append(order, msg.SenderID)
	}

	for _, senderID := range order {
		feed = append(feed, *bySender[senderID])
	}
	return feed, nil
}

// UnreadCount returns the total number of unread messages addressed to the
// user, for the notification badge.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead flips the unread flag on every unread message addressed to
// receiverID, narrowed to one sender when senderID is non-empty. It returns
// the number of messages updated and is idempotent: a repeat call with the
// same arguments updates zero messages.
func (s *Service) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	return s.store.MarkRead(ctx, receiverID, senderID)
}
