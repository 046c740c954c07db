package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eduportal-backend/internal/domain"
)

func testMessage(id string) *domain.Message {
	return &domain.Message{
		ID:             id,
		ConversationID: "conv-1",
		SenderID:       "user-other",
		Content:        "hello",
	}
}

func testConversation() *domain.Conversation {
	return &domain.Conversation{ID: "conv-1", Type: domain.ConversationTypeDirect}
}

func TestAddDeduplicatesByMessageID(t *testing.T) {
	accumulator := NewAccumulator(nil)

	first := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	second := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")

	assert.NotNil(t, first)
	assert.Nil(t, second)
	assert.Len(t, accumulator.Active(), 1)
}

func TestAddDistinctMessagesAccumulate(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	accumulator.Add(testMessage("msg-2"), testConversation(), "Maria")

	assert.Len(t, accumulator.Active(), 2)
}

func TestNotificationExpiresAfterDisplayWindow(t *testing.T) {
	accumulator := NewAccumulatorWithWindow(30*time.Millisecond, nil)

	accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	assert.Len(t, accumulator.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(accumulator.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRemoveIsIdempotent(t *testing.T) {
	accumulator := NewAccumulator(nil)

	notification := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")

	assert.True(t, accumulator.Remove(notification.ID))
	assert.False(t, accumulator.Remove(notification.ID))
	assert.Empty(t, accumulator.Active())
}

func TestExpiryAfterDismissalIsNoOp(t *testing.T) {
	accumulator := NewAccumulatorWithWindow(20*time.Millisecond, nil)

	notification := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	accumulator.Remove(notification.ID)

	// Let the dismissed banner's timer fire against the already-removed ID
	time.Sleep(40 * time.Millisecond)

	// The accumulator must still accept and hold new banners afterwards
	accumulator.Add(testMessage("msg-2"), testConversation(), "Maria")
	assert.Len(t, accumulator.Active(), 1)
}

func TestDismissedMessageCanReappear(t *testing.T) {
	accumulator := NewAccumulator(nil)

	notification := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	accumulator.Remove(notification.ID)

	again := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")

	assert.NotNil(t, again)
	assert.Len(t, accumulator.Active(), 1)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var snapshots [][]*domain.Notification
	accumulator := NewAccumulator(func(current []*domain.Notification) {
		snapshots = append(snapshots, current)
	})

	notification := accumulator.Add(testMessage("msg-1"), testConversation(), "Maria")
	accumulator.Remove(notification.ID)

	assert.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	assert.Empty(t, snapshots[1])
}
