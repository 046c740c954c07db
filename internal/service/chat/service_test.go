package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/identity"
)

// Mocks
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Create(ctx context.Context, conversation *domain.Conversation, participants []*domain.ConversationParticipant) error {
	args := m.Called(ctx, conversation, participants)
	return args.Error(0)
}

func (m *MockConversationStore) GetByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationStore) GetParticipantsByUser(ctx context.Context, userID string) ([]*domain.ConversationParticipant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationParticipant), args.Error(1)
}

func (m *MockConversationStore) GetParticipants(ctx context.Context, conversationID string) ([]*domain.ConversationParticipant, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationParticipant), args.Error(1)
}

func (m *MockConversationStore) GetParticipant(ctx context.Context, conversationID, userID string) (*domain.ConversationParticipant, error) {
	args := m.Called(ctx, conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationParticipant), args.Error(1)
}

func (m *MockConversationStore) FindDirectBetween(ctx context.Context, userID, otherUserID string) (*domain.Conversation, error) {
	args := m.Called(ctx, userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationStore) UpdateLastMessage(ctx context.Context, conversationID string, message *domain.Message) error {
	args := m.Called(ctx, conversationID, message)
	return args.Error(0)
}

func (m *MockConversationStore) IncrementUnread(ctx context.Context, conversationID, senderID string) error {
	args := m.Called(ctx, conversationID, senderID)
	return args.Error(0)
}

func (m *MockConversationStore) Deactivate(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockConversationStore) RemoveParticipant(ctx context.Context, conversationID, userID string) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *MockConversationStore) Watch(ctx context.Context, conversationID string, fn func(*domain.Conversation)) func() {
	args := m.Called(ctx, conversationID, fn)
	return args.Get(0).(func())
}

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Save(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageStore) GetByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageStore) ListByConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageStore) Latest(ctx context.Context, conversationID string) (*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageStore) MarkRead(ctx context.Context, conversationID, userID string, messageIDs []string) error {
	args := m.Called(ctx, conversationID, userID, messageIDs)
	return args.Error(0)
}

func (m *MockMessageStore) Watch(ctx context.Context, conversationID string, fn func([]*domain.Message)) func() {
	args := m.Called(ctx, conversationID, fn)
	return args.Get(0).(func())
}

// fixedIdentity returns the same user for every call
type fixedIdentity struct {
	user *identity.User
}

func (f *fixedIdentity) CurrentUser(ctx context.Context) (*identity.User, error) {
	return f.user, nil
}

func (f *fixedIdentity) Lookup(ctx context.Context, userID string) (*identity.User, error) {
	return &identity.User{ID: userID}, nil
}

func newTestService(convStore *MockConversationStore, msgStore *MockMessageStore) *Service {
	return NewService(convStore, msgStore, &fixedIdentity{
		user: &identity.User{ID: "user-me", Name: "Current User", Email: "me@example.com"},
	}, nil)
}

func TestCreateConversationIncludesActorAsAdmin(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Conversation"), mock.Anything).
		Run(func(args mock.Arguments) {
			conversation := args.Get(1).(*domain.Conversation)
			conversation.ID = "conv-1"
		}).
		Return(nil)

	output, err := service.CreateConversation(context.Background(), &CreateConversationInput{
		Type:         domain.ConversationTypeGroup,
		Title:        "Study Group",
		Participants: []string{"user-a", "user-b"},
	})

	assert.NoError(t, err)
	assert.Contains(t, output.Conversation.Participants, "user-me")

	participants := convStore.Calls[0].Arguments.Get(2).([]*domain.ConversationParticipant)
	var actorRole string
	for _, p := range participants {
		if p.UserID == "user-me" {
			actorRole = p.Role
		}
	}
	assert.Equal(t, domain.RoleAdmin, actorRole)
	convStore.AssertExpectations(t)
}

func TestCreateConversationRejectsEmptyParticipants(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	_, err := service.CreateConversation(context.Background(), &CreateConversationInput{
		Type: domain.ConversationTypeGroup,
	})

	assert.Error(t, err)
	convStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDMConversationReturnsExisting(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	existing := &domain.Conversation{
		ID:           "conv-existing",
		Type:         domain.ConversationTypeDirect,
		Participants: []string{"user-me", "user-other"},
		IsActive:     true,
	}

	// First call finds nothing and creates; second call sees the first
	// call's write and returns the same conversation
	convStore.On("FindDirectBetween", mock.Anything, "user-me", "user-other").Return(nil, nil).Once()
	convStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Conversation"), mock.Anything).
		Run(func(args mock.Arguments) {
			conversation := args.Get(1).(*domain.Conversation)
			conversation.ID = "conv-existing"
		}).
		Return(nil).Once()
	convStore.On("FindDirectBetween", mock.Anything, "user-me", "user-other").Return(existing, nil).Once()

	first, err := service.CreateDMConversation(context.Background(), &CreateDMConversationInput{RecipientID: "user-other"})
	assert.NoError(t, err)

	second, err := service.CreateDMConversation(context.Background(), &CreateDMConversationInput{RecipientID: "user-other"})
	assert.NoError(t, err)

	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	convStore.AssertExpectations(t)
}

func TestGetConversationsSortFallsBackToCreatedAt(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	convStore.On("GetParticipantsByUser", mock.Anything, "user-me").Return([]*domain.ConversationParticipant{
		{ConversationID: "conv-a", UserID: "user-me", IsActive: true},
		{ConversationID: "conv-b", UserID: "user-me", IsActive: true},
	}, nil)
	convStore.On("GetByID", mock.Anything, "conv-a").Return(&domain.Conversation{
		ID: "conv-a", Type: domain.ConversationTypeDirect, IsActive: true, CreatedAt: older,
	}, nil)
	convStore.On("GetByID", mock.Anything, "conv-b").Return(&domain.Conversation{
		ID: "conv-b", Type: domain.ConversationTypeDirect, IsActive: true, CreatedAt: newer,
	}, nil)
	msgStore.On("Latest", mock.Anything, "conv-a").Return(nil, nil)
	msgStore.On("Latest", mock.Anything, "conv-b").Return(nil, nil)

	output, err := service.GetConversations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, output.Conversations, 2)
	assert.Equal(t, "conv-b", output.Conversations[0].ID)
	assert.Equal(t, "conv-a", output.Conversations[1].ID)
}

func TestGetConversationsPrefersLastMessageTime(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	convStore.On("GetParticipantsByUser", mock.Anything, "user-me").Return([]*domain.ConversationParticipant{
		{ConversationID: "conv-quiet", UserID: "user-me", IsActive: true, UnreadCount: 0},
		{ConversationID: "conv-busy", UserID: "user-me", IsActive: true, UnreadCount: 3},
	}, nil)
	// conv-quiet was created later but has no messages
	convStore.On("GetByID", mock.Anything, "conv-quiet").Return(&domain.Conversation{
		ID: "conv-quiet", Type: domain.ConversationTypeDirect, IsActive: true, CreatedAt: base.Add(time.Hour),
	}, nil)
	convStore.On("GetByID", mock.Anything, "conv-busy").Return(&domain.Conversation{
		ID: "conv-busy", Type: domain.ConversationTypeGroup, IsActive: true, CreatedAt: base,
	}, nil)
	msgStore.On("Latest", mock.Anything, "conv-quiet").Return(nil, nil)
	msgStore.On("Latest", mock.Anything, "conv-busy").Return(&domain.Message{
		ID:             "msg-1",
		ConversationID: "conv-busy",
		Content:        "hello",
		Timestamp:      base.Add(2 * time.Hour),
	}, nil)

	output, err := service.GetConversations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, output.Conversations, 2)
	assert.Equal(t, "conv-busy", output.Conversations[0].ID)
	assert.Equal(t, 3, output.Conversations[0].UnreadCount)
	assert.NotNil(t, output.Conversations[0].LastMessage)
}

func TestGetConversationsSkipsConversationWhenLatestFails(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipantsByUser", mock.Anything, "user-me").Return([]*domain.ConversationParticipant{
		{ConversationID: "conv-broken", UserID: "user-me", IsActive: true},
		{ConversationID: "conv-ok", UserID: "user-me", IsActive: true},
	}, nil)
	convStore.On("GetByID", mock.Anything, "conv-broken").Return(&domain.Conversation{
		ID: "conv-broken", Type: domain.ConversationTypeDirect, IsActive: true,
	}, nil)
	convStore.On("GetByID", mock.Anything, "conv-ok").Return(&domain.Conversation{
		ID: "conv-ok", Type: domain.ConversationTypeDirect, IsActive: true,
	}, nil)
	msgStore.On("Latest", mock.Anything, "conv-broken").Return(nil, assert.AnError)
	msgStore.On("Latest", mock.Anything, "conv-ok").Return(nil, nil)

	// One broken conversation must not take down the whole listing
	output, err := service.GetConversations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, output.Conversations, 1)
	assert.Equal(t, "conv-ok", output.Conversations[0].ID)
}

func TestSendMessage(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("Save", mock.Anything, mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			message := args.Get(1).(*domain.Message)
			message.ID = "msg-1"
		}).
		Return(nil)
	convStore.On("UpdateLastMessage", mock.Anything, "conv-1", mock.AnythingOfType("*domain.Message")).Return(nil)
	convStore.On("IncrementUnread", mock.Anything, "conv-1", "user-me").Return(nil)

	output, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
		Content:        "Hello World",
		ContentType:    domain.ContentTypeText,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello World", output.Message.Content)
	assert.Equal(t, "user-me", output.Message.SenderID)
	assert.Equal(t, "Current User", output.Message.SenderName)

	convStore.AssertExpectations(t)
	msgStore.AssertExpectations(t)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	_, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
	})

	assert.Error(t, err)
	msgStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSendMessageSucceedsWhenUnreadBatchFails(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("Save", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	convStore.On("UpdateLastMessage", mock.Anything, "conv-1", mock.Anything).Return(nil)
	convStore.On("IncrementUnread", mock.Anything, "conv-1", "user-me").Return(assert.AnError)

	// The message is persisted before the counter batch runs, so the send
	// itself must not fail
	output, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
		Content:        "still delivered",
	})

	assert.NoError(t, err)
	assert.NotNil(t, output.Message)
}

func TestSendMessageValidatesReplyTarget(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("GetByID", mock.Anything, "msg-parent").Return(&domain.Message{
		ID: "msg-parent", ConversationID: "conv-1",
	}, nil)
	msgStore.On("Save", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	convStore.On("UpdateLastMessage", mock.Anything, "conv-1", mock.Anything).Return(nil)
	convStore.On("IncrementUnread", mock.Anything, "conv-1", "user-me").Return(nil)

	output, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
		Content:        "agreed",
		ReplyTo:        "msg-parent",
	})

	assert.NoError(t, err)
	assert.Equal(t, "msg-parent", output.Message.ReplyTo)
	msgStore.AssertExpectations(t)
}

func TestSendMessageRejectsCrossConversationReply(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("GetByID", mock.Anything, "msg-elsewhere").Return(&domain.Message{
		ID: "msg-elsewhere", ConversationID: "conv-other",
	}, nil)

	_, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
		Content:        "sneaky reply",
		ReplyTo:        "msg-elsewhere",
	})

	assert.Error(t, err)
	msgStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSendMessageRejectsUnknownReplyTarget(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("GetByID", mock.Anything, "msg-missing").Return(nil, assert.AnError)

	_, err := service.SendMessage(context.Background(), &SendMessageInput{
		ConversationID: "conv-1",
		Content:        "reply to nothing",
		ReplyTo:        "msg-missing",
	})

	assert.Error(t, err)
	msgStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeaveConversation(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", Role: domain.RoleMember, IsActive: true,
	}, nil)
	convStore.On("RemoveParticipant", mock.Anything, "conv-1", "user-me").Return(nil)

	err := service.LeaveConversation(context.Background(), "conv-1")

	assert.NoError(t, err)
	convStore.AssertExpectations(t)
}

func TestLeaveConversationRequiresMembership(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(nil, assert.AnError)

	err := service.LeaveConversation(context.Background(), "conv-1")

	assert.Error(t, err)
	convStore.AssertNotCalled(t, "RemoveParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaveConversationRejectsInactiveParticipant(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", Role: domain.RoleMember, IsActive: false,
	}, nil)

	err := service.LeaveConversation(context.Background(), "conv-1")

	assert.Error(t, err)
	convStore.AssertNotCalled(t, "RemoveParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeactivateConversation(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", Role: domain.RoleAdmin, IsActive: true,
	}, nil)
	convStore.On("Deactivate", mock.Anything, "conv-1").Return(nil)

	err := service.DeactivateConversation(context.Background(), "conv-1")

	assert.NoError(t, err)
	convStore.AssertExpectations(t)
}

func TestDeactivateConversationRequiresAdminRole(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", Role: domain.RoleMember, IsActive: true,
	}, nil)

	err := service.DeactivateConversation(context.Background(), "conv-1")

	assert.Error(t, err)
	convStore.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestMarkMessagesAsReadEmptyListIsNoOp(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	err := service.MarkMessagesAsRead(context.Background(), &MarkMessagesAsReadInput{
		ConversationID: "conv-1",
		MessageIDs:     []string{},
	})

	assert.NoError(t, err)
	msgStore.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	convStore.AssertNotCalled(t, "GetParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkMessagesAsRead(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)
	msgStore.On("MarkRead", mock.Anything, "conv-1", "user-me", []string{"msg-1", "msg-2"}).Return(nil)

	err := service.MarkMessagesAsRead(context.Background(), &MarkMessagesAsReadInput{
		ConversationID: "conv-1",
		MessageIDs:     []string{"msg-1", "msg-2"},
	})

	assert.NoError(t, err)
	msgStore.AssertExpectations(t)
}

func TestSubscribeToMessagesDeliversAscendingOrder(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(&domain.ConversationParticipant{
		ConversationID: "conv-1", UserID: "user-me", IsActive: true,
	}, nil)

	var captured func([]*domain.Message)
	msgStore.On("Watch", mock.Anything, "conv-1", mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(func([]*domain.Message))
		}).
		Return(func() {})

	var received []*domain.Message
	unsubscribe, err := service.SubscribeToMessages(context.Background(), "conv-1", func(messages []*domain.Message) {
		received = messages
	})
	assert.NoError(t, err)
	assert.NotNil(t, unsubscribe)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Deliver out of order; the subscriber must still see ascending timestamps
	captured([]*domain.Message{
		{ID: "msg-3", Timestamp: base.Add(2 * time.Minute)},
		{ID: "msg-1", Timestamp: base},
		{ID: "msg-2", Timestamp: base.Add(time.Minute)},
	})

	assert.Len(t, received, 3)
	assert.Equal(t, "msg-1", received[0].ID)
	assert.Equal(t, "msg-2", received[1].ID)
	assert.Equal(t, "msg-3", received[2].ID)
}

func TestSubscribeToMessagesRequiresMembership(t *testing.T) {
	convStore := new(MockConversationStore)
	msgStore := new(MockMessageStore)
	service := newTestService(convStore, msgStore)

	convStore.On("GetParticipant", mock.Anything, "conv-1", "user-me").Return(nil, assert.AnError)

	_, err := service.SubscribeToMessages(context.Background(), "conv-1", func([]*domain.Message) {})

	assert.Error(t, err)
	msgStore.AssertNotCalled(t, "Watch", mock.Anything, mock.Anything, mock.Anything)
}
