package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"eduportal-backend/internal/domain"
)

type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) SendMessageNotification(ctx context.Context, conversationID string, senderName, preview string, recipientIDs []uuid.UUID) error {
	args := m.Called(ctx, conversationID, senderName, preview, recipientIDs)
	return args.Error(0)
}

type MockPresenceChecker struct {
	mock.Mock
}

func (m *MockPresenceChecker) IsUserOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func TestNotifyNewMessageSkipsOnlineRecipients(t *testing.T) {
	sender := new(MockPushSender)
	presence := new(MockPresenceChecker)
	dispatcher := NewPushDispatcher(sender, presence)

	onlineID := uuid.New()
	offlineID := uuid.New()

	presence.On("IsUserOnline", mock.Anything, onlineID).Return(true, nil)
	presence.On("IsUserOnline", mock.Anything, offlineID).Return(false, nil)
	sender.On("SendMessageNotification", mock.Anything, "conv-1", "Maria Garcia", "hello", []uuid.UUID{offlineID}).Return(nil)

	message := &domain.Message{ConversationID: "conv-1", Content: "hello"}
	dispatcher.NotifyNewMessage(context.Background(), message, "Maria Garcia", []string{onlineID.String(), offlineID.String()})

	sender.AssertExpectations(t)
	presence.AssertExpectations(t)
}

func TestNotifyNewMessageNoOffline(t *testing.T) {
	sender := new(MockPushSender)
	presence := new(MockPresenceChecker)
	dispatcher := NewPushDispatcher(sender, presence)

	onlineID := uuid.New()
	presence.On("IsUserOnline", mock.Anything, onlineID).Return(true, nil)

	message := &domain.Message{ConversationID: "conv-1", Content: "hello"}
	dispatcher.NotifyNewMessage(context.Background(), message, "Maria Garcia", []string{onlineID.String()})

	sender.AssertNotCalled(t, "SendMessageNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyNewMessageAttachmentPreview(t *testing.T) {
	sender := new(MockPushSender)
	presence := new(MockPresenceChecker)
	dispatcher := NewPushDispatcher(sender, presence)

	recipientID := uuid.New()
	presence.On("IsUserOnline", mock.Anything, recipientID).Return(false, nil)
	sender.On("SendMessageNotification", mock.Anything, "conv-1", "Prof. Emily Brown", "Sent an attachment", []uuid.UUID{recipientID}).Return(nil)

	message := &domain.Message{
		ConversationID: "conv-1",
		Attachments:    []domain.Attachment{{Name: "syllabus.pdf"}},
	}
	dispatcher.NotifyNewMessage(context.Background(), message, "Prof. Emily Brown", []string{recipientID.String()})

	sender.AssertExpectations(t)
}

func TestNotifyNewMessageSkipsInvalidIDs(t *testing.T) {
	sender := new(MockPushSender)
	presence := new(MockPresenceChecker)
	dispatcher := NewPushDispatcher(sender, presence)

	message := &domain.Message{ConversationID: "conv-1", Content: "hello"}
	dispatcher.NotifyNewMessage(context.Background(), message, "Maria Garcia", []string{"user-1", "not-a-uuid"})

	sender.AssertNotCalled(t, "SendMessageNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyNewMessagePushesWhenPresenceFails(t *testing.T) {
	sender := new(MockPushSender)
	presence := new(MockPresenceChecker)
	dispatcher := NewPushDispatcher(sender, presence)

	recipientID := uuid.New()
	presence.On("IsUserOnline", mock.Anything, recipientID).Return(false, assert.AnError)
	sender.On("SendMessageNotification", mock.Anything, "conv-1", "Maria Garcia", "hello", []uuid.UUID{recipientID}).Return(nil)

	message := &domain.Message{ConversationID: "conv-1", Content: "hello"}
	dispatcher.NotifyNewMessage(context.Background(), message, "Maria Garcia", []string{recipientID.String()})

	sender.AssertExpectations(t)
}
