package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eduportal-backend/internal/domain"
)

// stubSubscriber captures callbacks so tests can push conversation updates
type stubSubscriber struct {
	callbacks  map[string]func(*domain.Conversation)
	unsubCount map[string]int
}

func newStubSubscriber() *stubSubscriber {
	return &stubSubscriber{
		callbacks:  make(map[string]func(*domain.Conversation)),
		unsubCount: make(map[string]int),
	}
}

func (s *stubSubscriber) SubscribeToConversation(ctx context.Context, conversationID string, callback func(*domain.Conversation)) (func(), error) {
	s.callbacks[conversationID] = callback
	return func() { s.unsubCount[conversationID]++ }, nil
}

func (s *stubSubscriber) push(conversation *domain.Conversation) {
	if callback, ok := s.callbacks[conversation.ID]; ok {
		callback(conversation)
	}
}

func conversationWithMessage(conversationID, senderID string, at time.Time) *domain.Conversation {
	return &domain.Conversation{
		ID:   conversationID,
		Type: domain.ConversationTypeDirect,
		LastMessage: &domain.Message{
			ID:             "msg-" + at.Format("150405.000"),
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        "hello",
			Timestamp:      at,
		},
		LastMessageTime: at,
	}
}

func TestFanoutBannersForOtherSenders(t *testing.T) {
	subscriber := newStubSubscriber()
	accumulator := NewAccumulator(nil)
	fanout := NewFanout(subscriber, accumulator, "user-me")
	defer fanout.Close()

	err := fanout.WatchConversations(context.Background(), []*domain.Conversation{
		{ID: "conv-1", Type: domain.ConversationTypeDirect},
	})
	assert.NoError(t, err)

	subscriber.push(conversationWithMessage("conv-1", "user-other", time.Now().UTC()))

	assert.Len(t, accumulator.Active(), 1)
}

func TestFanoutIgnoresOwnMessages(t *testing.T) {
	subscriber := newStubSubscriber()
	accumulator := NewAccumulator(nil)
	fanout := NewFanout(subscriber, accumulator, "user-me")
	defer fanout.Close()

	_ = fanout.WatchConversations(context.Background(), []*domain.Conversation{
		{ID: "conv-1", Type: domain.ConversationTypeDirect},
	})

	subscriber.push(conversationWithMessage("conv-1", "user-me", time.Now().UTC()))

	assert.Empty(t, accumulator.Active())
}

func TestFanoutIgnoresSelectedConversation(t *testing.T) {
	subscriber := newStubSubscriber()
	accumulator := NewAccumulator(nil)
	fanout := NewFanout(subscriber, accumulator, "user-me")
	defer fanout.Close()

	_ = fanout.WatchConversations(context.Background(), []*domain.Conversation{
		{ID: "conv-1", Type: domain.ConversationTypeDirect},
	})
	fanout.SetSelected("conv-1")

	subscriber.push(conversationWithMessage("conv-1", "user-other", time.Now().UTC()))

	assert.Empty(t, accumulator.Active())
}

func TestFanoutIgnoresAlreadySeenMessages(t *testing.T) {
	subscriber := newStubSubscriber()
	accumulator := NewAccumulator(nil)
	fanout := NewFanout(subscriber, accumulator, "user-me")
	defer fanout.Close()

	at := time.Now().UTC()
	// Seeding with an existing tail message must not produce a banner when
	// the same state is pushed again
	_ = fanout.WatchConversations(context.Background(), []*domain.Conversation{
		conversationWithMessage("conv-1", "user-other", at),
	})

	subscriber.push(conversationWithMessage("conv-1", "user-other", at))

	assert.Empty(t, accumulator.Active())
}

func TestFanoutCloseTearsDownAllListeners(t *testing.T) {
	subscriber := newStubSubscriber()
	accumulator := NewAccumulator(nil)
	fanout := NewFanout(subscriber, accumulator, "user-me")

	_ = fanout.WatchConversations(context.Background(), []*domain.Conversation{
		{ID: "conv-1", Type: domain.ConversationTypeDirect},
		{ID: "conv-2", Type: domain.ConversationTypeDirect},
		{ID: "conv-3", Type: domain.ConversationTypeGroup},
	})

	fanout.Close()

	assert.Equal(t, 1, subscriber.unsubCount["conv-1"])
	assert.Equal(t, 1, subscriber.unsubCount["conv-2"])
	assert.Equal(t, 1, subscriber.unsubCount["conv-3"])
}

func TestRegistryReplaceTearsDownPrevious(t *testing.T) {
	registry := NewRegistry()

	firstTorn := 0
	registry.Register("conv-1", func() { firstTorn++ })
	registry.Register("conv-1", func() {})

	assert.Equal(t, 1, firstTorn)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryUnregisterUnknownIsNoOp(t *testing.T) {
	registry := NewRegistry()
	registry.Unregister("conv-unknown")
	assert.Equal(t, 0, registry.Count())
}
