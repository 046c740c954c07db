package chat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/identity"
	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
)

// ConversationStore is the document-store surface the service needs for
// conversations and participant records
type ConversationStore interface {
	Create(ctx context.Context, conversation *domain.Conversation, participants []*domain.ConversationParticipant) error
	GetByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	GetParticipantsByUser(ctx context.Context, userID string) ([]*domain.ConversationParticipant, error)
	GetParticipants(ctx context.Context, conversationID string) ([]*domain.ConversationParticipant, error)
	GetParticipant(ctx context.Context, conversationID, userID string) (*domain.ConversationParticipant, error)
	FindDirectBetween(ctx context.Context, userID, otherUserID string) (*domain.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID string, message *domain.Message) error
	IncrementUnread(ctx context.Context, conversationID, senderID string) error
	Deactivate(ctx context.Context, conversationID string) error
	RemoveParticipant(ctx context.Context, conversationID, userID string) error
	Watch(ctx context.Context, conversationID string, fn func(*domain.Conversation)) func()
}

// MessageStore is the document-store surface the service needs for messages
type MessageStore interface {
	Save(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, messageID string) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error)
	Latest(ctx context.Context, conversationID string) (*domain.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string, messageIDs []string) error
	Watch(ctx context.Context, conversationID string, fn func([]*domain.Message)) func()
}

// Notifier delivers out-of-app notifications for newly sent messages
type Notifier interface {
	NotifyNewMessage(ctx context.Context, message *domain.Message, senderName string, recipientIDs []string)
}

// Service handles conversation and message business logic
type Service struct {
	conversations ConversationStore
	messages      MessageStore
	identity      identity.Provider
	notifier      Notifier
}

// NewService creates a new chat service. The notifier may be nil, in which
// case no device push notifications are sent.
func NewService(conversations ConversationStore, messages MessageStore, identityProvider identity.Provider, notifier Notifier) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		identity:      identityProvider,
		notifier:      notifier,
	}
}

// CreateConversationInput contains conversation creation data
type CreateConversationInput struct {
	Type         string
	Title        string
	Participants []string
	Metadata     map[string]interface{}
}

// CreateConversationOutput contains the created conversation
type CreateConversationOutput struct {
	Conversation *domain.Conversation
}

// CreateConversation writes a conversation document and one participant
// record per member as a single batch. The acting user is always included
// with the admin role, even when absent from the input list.
func (s *Service) CreateConversation(ctx context.Context, input *CreateConversationInput) (*CreateConversationOutput, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if len(input.Participants) == 0 {
		return nil, apperrors.ValidationError("participants must not be empty")
	}
	if input.Type != domain.ConversationTypeDirect && input.Type != domain.ConversationTypeGroup {
		return nil, apperrors.ValidationError("invalid conversation type")
	}

	memberIDs := dedupeWithActor(input.Participants, user.ID)

	now := time.Now().UTC()
	conversation := &domain.Conversation{
		Type:         input.Type,
		Title:        input.Title,
		Participants: memberIDs,
		IsActive:     true,
		CreatedBy:    user.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Metadata:     input.Metadata,
	}

	participants := make([]*domain.ConversationParticipant, 0, len(memberIDs))
	for _, id := range memberIDs {
		role := domain.RoleMember
		if id == user.ID {
			role = domain.RoleAdmin
		}
		participants = append(participants, &domain.ConversationParticipant{
			UserID:   id,
			Role:     role,
			JoinedAt: now,
			IsActive: true,
		})
	}

	if err := s.conversations.Create(ctx, conversation, participants); err != nil {
		return nil, apperrors.StoreError(fmt.Errorf("failed to create conversation: %w", err))
	}

	logger.Info("Conversation created",
		zap.String("conversation_id", conversation.ID),
		zap.String("type", conversation.Type),
		zap.Int("participant_count", len(memberIDs)))

	return &CreateConversationOutput{Conversation: conversation}, nil
}

// CreateDMConversationInput contains direct conversation creation data
type CreateDMConversationInput struct {
	RecipientID string
	Metadata    map[string]interface{}
}

// CreateDMConversation returns an existing direct conversation between the
// acting user and the recipient when one exists, otherwise creates one.
// Two concurrent calls can both miss each other's in-flight creation and
// produce duplicates; the pre-check only reduces the likelihood.
func (s *Service) CreateDMConversation(ctx context.Context, input *CreateDMConversationInput) (*CreateConversationOutput, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if input.RecipientID == "" {
		return nil, apperrors.ValidationError("recipient is required")
	}
	if input.RecipientID == user.ID {
		return nil, apperrors.ValidationError("cannot start a conversation with yourself")
	}

	existing, err := s.conversations.FindDirectBetween(ctx, user.ID, input.RecipientID)
	if err != nil {
		return nil, apperrors.StoreError(fmt.Errorf("failed to check for existing conversation: %w", err))
	}
	if existing != nil {
		return &CreateConversationOutput{Conversation: existing}, nil
	}

	return s.CreateConversation(ctx, &CreateConversationInput{
		Type:         domain.ConversationTypeDirect,
		Participants: []string{input.RecipientID},
		Metadata:     input.Metadata,
	})
}

// CreateGroupConversationInput contains group conversation creation data
type CreateGroupConversationInput struct {
	Name         string
	Description  string
	Participants []string
	Members      []domain.GroupMember
}

// CreateGroupConversation creates a group conversation. The acting user is
// always assigned the admin role regardless of the participant list.
func (s *Service) CreateGroupConversation(ctx context.Context, input *CreateGroupConversationInput) (*CreateConversationOutput, error) {
	if input.Name == "" {
		return nil, apperrors.ValidationError("group name is required")
	}

	metadata := map[string]interface{}{
		"groupName": input.Name,
	}
	if input.Description != "" {
		metadata["groupDescription"] = input.Description
	}
	if len(input.Members) > 0 {
		members := make([]interface{}, 0, len(input.Members))
		for _, m := range input.Members {
			members = append(members, map[string]interface{}{"id": m.ID, "name": m.Name})
		}
		metadata["groupMembers"] = members
	}

	return s.CreateConversation(ctx, &CreateConversationInput{
		Type:         domain.ConversationTypeGroup,
		Title:        input.Name,
		Participants: input.Participants,
		Metadata:     metadata,
	})
}

// GetConversationsOutput contains the acting user's conversation list
type GetConversationsOutput struct {
	Conversations []*domain.Conversation
}

// GetConversations resolves the acting user's active participant records and
// joins each to its conversation document plus its most recent message. The
// per-conversation latest-message query is an N+1 pattern, acceptable at the
// conversation counts this portal sees.
func (s *Service) GetConversations(ctx context.Context) (*GetConversationsOutput, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	records, err := s.conversations.GetParticipantsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.StoreError(fmt.Errorf("failed to list participant records: %w", err))
	}

	conversations := make([]*domain.Conversation, 0, len(records))
	for _, record := range records {
		conversation, err := s.conversations.GetByID(ctx, record.ConversationID)
		if err != nil {
			logger.Warn("Failed to load conversation for participant record",
				zap.String("conversation_id", record.ConversationID),
				zap.String("user_id", user.ID),
				zap.Error(err))
			continue
		}
		if !conversation.IsActive {
			continue
		}

		latest, err := s.messages.Latest(ctx, record.ConversationID)
		if err != nil {
			logger.Warn("Failed to load latest message for conversation",
				zap.String("conversation_id", record.ConversationID),
				zap.String("user_id", user.ID),
				zap.Error(err))
			continue
		}
		if latest != nil {
			conversation.LastMessage = latest
			conversation.LastMessageTime = latest.Timestamp
		}
		conversation.UnreadCount = record.UnreadCount

		conversations = append(conversations, conversation)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return effectiveTime(conversations[i]).After(effectiveTime(conversations[j]))
	})

	return &GetConversationsOutput{Conversations: conversations}, nil
}

// effectiveTime is the sort key for conversation lists: last message time
// when a message exists, creation time otherwise
func effectiveTime(c *domain.Conversation) time.Time {
	if c.LastMessage != nil {
		return c.LastMessageTime
	}
	return c.CreatedAt
}

// SendMessageInput contains message data
type SendMessageInput struct {
	ConversationID string
	Content        string
	ContentType    string
	Attachments    []domain.Attachment
	ReplyTo        string
}

// SendMessageOutput contains the persisted message
type SendMessageOutput struct {
	Message *domain.Message
}

// SendMessage persists a message, refreshes the conversation's denormalized
// last-message snapshot, and bumps the unread counter on every other
// participant. The message survives failures of the follow-up writes; those
// are logged and counted rather than rolled back.
func (s *Service) SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if input.Content == "" && len(input.Attachments) == 0 {
		return nil, apperrors.ValidationError("message content must not be empty")
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = domain.ContentTypeText
	}

	participant, err := s.conversations.GetParticipant(ctx, input.ConversationID, user.ID)
	if err != nil {
		return nil, apperrors.NotParticipantError()
	}
	if !participant.IsActive {
		return nil, apperrors.NotParticipantError()
	}

	if input.ReplyTo != "" {
		parent, err := s.messages.GetByID(ctx, input.ReplyTo)
		if err != nil {
			return nil, apperrors.MessageNotFoundError()
		}
		if parent.ConversationID != input.ConversationID {
			return nil, apperrors.ValidationError("replied-to message belongs to another conversation")
		}
	}

	message := &domain.Message{
		ConversationID: input.ConversationID,
		SenderID:       user.ID,
		SenderName:     user.Name,
		Content:        input.Content,
		ContentType:    contentType,
		Attachments:    input.Attachments,
		ReplyTo:        input.ReplyTo,
	}

	if err := s.messages.Save(ctx, message); err != nil {
		return nil, apperrors.StoreError(fmt.Errorf("failed to save message: %w", err))
	}
	metrics.ChatMessageSentTotal.WithLabelValues(contentType).Inc()

	// The message is already persisted at this point. Denormalization
	// failures are surfaced in logs and metrics, not to the sender.
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	if err := s.conversations.UpdateLastMessage(ctx, input.ConversationID, message); err != nil {
		logger.Error("Failed to update conversation last message",
			zap.String("conversation_id", input.ConversationID),
			zap.String("message_id", message.ID),
			zap.Error(err))
	}
	if err := s.conversations.IncrementUnread(ctx, input.ConversationID, user.ID); err != nil {
		metrics.ChatUnreadBatchFailedTotal.Inc()
		logger.Error("Failed to increment unread counts",
			zap.String("conversation_id", input.ConversationID),
			zap.String("message_id", message.ID),
			zap.Error(err))
	}

	if s.notifier != nil {
		participants, err := s.conversations.GetParticipants(ctx, input.ConversationID)
		if err != nil {
			logger.Warn("Failed to load participants for push notification",
				zap.String("conversation_id", input.ConversationID),
				zap.Error(err))
		} else {
			recipients := make([]string, 0, len(participants))
			for _, p := range participants {
				if p.UserID != user.ID && p.IsActive {
					recipients = append(recipients, p.UserID)
				}
			}
			if len(recipients) > 0 {
				s.notifier.NotifyNewMessage(ctx, message, user.Name, recipients)
			}
		}
	}

	return &SendMessageOutput{Message: message}, nil
}

// MarkMessagesAsReadInput identifies the messages to flag
type MarkMessagesAsReadInput struct {
	ConversationID string
	MessageIDs     []string
}

// MarkMessagesAsRead batch-sets isRead on the given messages and resets the
// acting user's read state. A no-op when the message list is empty.
func (s *Service) MarkMessagesAsRead(ctx context.Context, input *MarkMessagesAsReadInput) error {
	if len(input.MessageIDs) == 0 {
		return nil
	}

	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return apperrors.UnauthorizedError("authentication required")
	}

	if _, err := s.conversations.GetParticipant(ctx, input.ConversationID, user.ID); err != nil {
		return apperrors.NotParticipantError()
	}

	if err := s.messages.MarkRead(ctx, input.ConversationID, user.ID, input.MessageIDs); err != nil {
		return apperrors.StoreError(fmt.Errorf("failed to mark messages as read: %w", err))
	}

	return nil
}

// LeaveConversation deactivates the acting user's participant record. The
// conversation itself stays active for the remaining members; the user stops
// receiving messages and unread increments for it.
func (s *Service) LeaveConversation(ctx context.Context, conversationID string) error {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return apperrors.UnauthorizedError("authentication required")
	}

	participant, err := s.conversations.GetParticipant(ctx, conversationID, user.ID)
	if err != nil {
		return apperrors.NotParticipantError()
	}
	if !participant.IsActive {
		return apperrors.NotParticipantError()
	}

	if err := s.conversations.RemoveParticipant(ctx, conversationID, user.ID); err != nil {
		return apperrors.StoreError(fmt.Errorf("failed to leave conversation: %w", err))
	}

	logger.Info("User left conversation",
		zap.String("conversation_id", conversationID),
		zap.String("user_id", user.ID))

	return nil
}

// DeactivateConversation soft-deletes a conversation. Only a participant
// holding the admin role may do this; deactivated conversations drop out of
// every member's listing but their documents are retained.
func (s *Service) DeactivateConversation(ctx context.Context, conversationID string) error {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return apperrors.UnauthorizedError("authentication required")
	}

	participant, err := s.conversations.GetParticipant(ctx, conversationID, user.ID)
	if err != nil {
		return apperrors.NotParticipantError()
	}
	if !participant.IsActive {
		return apperrors.NotParticipantError()
	}
	if participant.Role != domain.RoleAdmin {
		return apperrors.ForbiddenError("only a conversation admin can deactivate it")
	}

	if err := s.conversations.Deactivate(ctx, conversationID); err != nil {
		return apperrors.StoreError(fmt.Errorf("failed to deactivate conversation: %w", err))
	}

	logger.Info("Conversation deactivated",
		zap.String("conversation_id", conversationID),
		zap.String("user_id", user.ID))

	return nil
}

// GetMessages retrieves a conversation's messages ordered oldest first
func (s *Service) GetMessages(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if _, err := s.conversations.GetParticipant(ctx, conversationID, user.ID); err != nil {
		return nil, apperrors.NotParticipantError()
	}

	messages, err := s.messages.ListByConversation(ctx, conversationID, limit)
	if err != nil {
		return nil, apperrors.StoreError(fmt.Errorf("failed to list messages: %w", err))
	}

	return messages, nil
}

// SubscribeToMessages registers a live query over a conversation's messages.
// The callback receives the full current message list in ascending timestamp
// order on every change. The returned closure detaches the listener.
func (s *Service) SubscribeToMessages(ctx context.Context, conversationID string, callback func([]*domain.Message)) (func(), error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if _, err := s.conversations.GetParticipant(ctx, conversationID, user.ID); err != nil {
		return nil, apperrors.NotParticipantError()
	}

	unsubscribe := s.messages.Watch(ctx, conversationID, func(messages []*domain.Message) {
		// Change streams may deliver document events out of order
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		})
		callback(messages)
	})

	return unsubscribe, nil
}

// SubscribeToConversation registers a live query over a single conversation
// document, re-deriving the last message on every change
func (s *Service) SubscribeToConversation(ctx context.Context, conversationID string, callback func(*domain.Conversation)) (func(), error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if _, err := s.conversations.GetParticipant(ctx, conversationID, user.ID); err != nil {
		return nil, apperrors.NotParticipantError()
	}

	unsubscribe := s.conversations.Watch(ctx, conversationID, func(conversation *domain.Conversation) {
		latest, err := s.messages.Latest(ctx, conversationID)
		if err != nil {
			logger.Warn("Failed to derive last message for conversation update",
				zap.String("conversation_id", conversationID),
				zap.Error(err))
		} else if latest != nil {
			conversation.LastMessage = latest
			conversation.LastMessageTime = latest.Timestamp
		}
		callback(conversation)
	})

	return unsubscribe, nil
}

// dedupeWithActor returns the participant list with duplicates removed and
// the acting user guaranteed to be present
func dedupeWithActor(participants []string, actorID string) []string {
	seen := make(map[string]bool, len(participants)+1)
	result := make([]string, 0, len(participants)+1)

	for _, id := range participants {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}

	if !seen[actorID] {
		result = append(result, actorID)
	}

	return result
}
