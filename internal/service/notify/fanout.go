package notify

import (
	"context"
	"sync"
	"time"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/service/chat"
)

// Subscriber is the conversation subscription surface the fan-out needs
type Subscriber interface {
	SubscribeToConversation(ctx context.Context, conversationID string, callback func(*domain.Conversation)) (func(), error)
}

// Fanout keeps one live listener per conversation the user belongs to and
// feeds the accumulator when another participant's message arrives in a
// conversation the user is not currently viewing. Listener count is
// O(conversations); the registry makes teardown exhaustive.
type Fanout struct {
	subscriber  Subscriber
	accumulator *Accumulator
	registry    *Registry
	userID      string

	mu       sync.Mutex
	lastSeen map[string]time.Time
	selected string
}

// NewFanout creates a notification fan-out for one user session
func NewFanout(subscriber Subscriber, accumulator *Accumulator, userID string) *Fanout {
	return &Fanout{
		subscriber:  subscriber,
		accumulator: accumulator,
		registry:    NewRegistry(),
		userID:      userID,
		lastSeen:    make(map[string]time.Time),
	}
}

// WatchConversations registers a listener for each conversation. Safe to
// call again with an updated list; existing listeners are replaced.
func (f *Fanout) WatchConversations(ctx context.Context, conversations []*domain.Conversation) error {
	for _, conversation := range conversations {
		// Seed last-seen with the current tail so pre-existing messages
		// never produce banners
		f.mu.Lock()
		if conversation.LastMessage != nil {
			f.lastSeen[conversation.ID] = conversation.LastMessageTime
		}
		f.mu.Unlock()

		unsubscribe, err := f.subscriber.SubscribeToConversation(ctx, conversation.ID, f.handleUpdate)
		if err != nil {
			return err
		}
		f.registry.Register(conversation.ID, unsubscribe)
	}

	return nil
}

// SetSelected records which conversation the user is viewing. Messages in
// the selected conversation do not produce banners.
func (f *Fanout) SetSelected(conversationID string) {
	f.mu.Lock()
	f.selected = conversationID
	f.mu.Unlock()
}

// StopWatching tears down the listener for one conversation
func (f *Fanout) StopWatching(conversationID string) {
	f.registry.Unregister(conversationID)
}

// Close tears down every listener
func (f *Fanout) Close() {
	f.registry.Clear()
}

func (f *Fanout) handleUpdate(conversation *domain.Conversation) {
	message := conversation.LastMessage
	if message == nil {
		return
	}

	f.mu.Lock()
	seen := f.lastSeen[conversation.ID]
	isNew := message.Timestamp.After(seen)
	if isNew {
		f.lastSeen[conversation.ID] = message.Timestamp
	}
	selected := f.selected
	f.mu.Unlock()

	if !isNew {
		return
	}
	if message.SenderID == f.userID {
		return
	}
	if conversation.ID == selected {
		return
	}

	senderName := chat.DeriveSenderLabel(message, conversation, f.userID)
	f.accumulator.Add(message, conversation, senderName)
}
