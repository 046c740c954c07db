package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eduportal-backend/internal/domain"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
)

// Collection names
const (
	conversationsCollection = "conversations"
	participantsCollection  = "conversation_participants"
)

// ConversationRepository handles conversation documents in Firestore
type ConversationRepository struct {
	client *firestore.Client
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(client *firestore.Client) *ConversationRepository {
	return &ConversationRepository{client: client}
}

// participantDocID builds the deterministic document ID for a participant record
func participantDocID(conversationID, userID string) string {
	return conversationID + "_" + userID
}

// Create writes the conversation document and one participant record per
// participant as a single atomic batch
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation, participants []*domain.ConversationParticipant) error {
	convRef := r.client.Collection(conversationsCollection).NewDoc()
	conversation.ID = convRef.ID

	batch := r.client.Batch()
	batch.Create(convRef, conversation)

	for _, p := range participants {
		p.ConversationID = convRef.ID
		ref := r.client.Collection(participantsCollection).Doc(participantDocID(convRef.ID, p.UserID))
		p.ID = ref.ID
		batch.Create(ref, p)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create conversation batch: %w", err)
	}

	return nil
}

// GetByID retrieves a conversation by document ID
func (r *ConversationRepository) GetByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	doc, err := r.client.Collection(conversationsCollection).Doc(conversationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	conversation := &domain.Conversation{}
	if err := doc.DataTo(conversation); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	conversation.ID = doc.Ref.ID

	return conversation, nil
}

// GetParticipantsByUser retrieves a user's active participant records
func (r *ConversationRepository) GetParticipantsByUser(ctx context.Context, userID string) ([]*domain.ConversationParticipant, error) {
	iter := r.client.Collection(participantsCollection).
		Where("userId", "==", userID).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var participants []*domain.ConversationParticipant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list participants: %w", err)
		}

		p := &domain.ConversationParticipant{}
		if err := doc.DataTo(p); err != nil {
			return nil, fmt.Errorf("failed to decode participant: %w", err)
		}
		p.ID = doc.Ref.ID
		participants = append(participants, p)
	}

	return participants, nil
}

// GetParticipants retrieves all active participant records of a conversation
func (r *ConversationRepository) GetParticipants(ctx context.Context, conversationID string) ([]*domain.ConversationParticipant, error) {
	iter := r.client.Collection(participantsCollection).
		Where("conversationId", "==", conversationID).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var participants []*domain.ConversationParticipant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list participants: %w", err)
		}

		p := &domain.ConversationParticipant{}
		if err := doc.DataTo(p); err != nil {
			return nil, fmt.Errorf("failed to decode participant: %w", err)
		}
		p.ID = doc.Ref.ID
		participants = append(participants, p)
	}

	return participants, nil
}

// GetParticipant retrieves a single participant record
func (r *ConversationRepository) GetParticipant(ctx context.Context, conversationID, userID string) (*domain.ConversationParticipant, error) {
	doc, err := r.client.Collection(participantsCollection).
		Doc(participantDocID(conversationID, userID)).
		Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("participant not found")
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	p := &domain.ConversationParticipant{}
	if err := doc.DataTo(p); err != nil {
		return nil, fmt.Errorf("failed to decode participant: %w", err)
	}
	p.ID = doc.Ref.ID

	return p, nil
}

// FindDirectBetween looks for an existing active direct conversation between
// two users. Firestore allows a single array-contains clause per query, so the
// second membership check happens client-side. Returns nil when none exists.
func (r *ConversationRepository) FindDirectBetween(ctx context.Context, userID, otherUserID string) (*domain.Conversation, error) {
	iter := r.client.Collection(conversationsCollection).
		Where("type", "==", domain.ConversationTypeDirect).
		Where("isActive", "==", true).
		Where("participants", "array-contains", userID).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query direct conversations: %w", err)
		}

		conversation := &domain.Conversation{}
		if err := doc.DataTo(conversation); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		conversation.ID = doc.Ref.ID

		for _, p := range conversation.Participants {
			if p == otherUserID {
				return conversation, nil
			}
		}
	}

	return nil, nil
}

// UpdateLastMessage refreshes the denormalized last-message snapshot
func (r *ConversationRepository) UpdateLastMessage(ctx context.Context, conversationID string, message *domain.Message) error {
	_, err := r.client.Collection(conversationsCollection).Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: message},
		{Path: "lastMessageTime", Value: message.Timestamp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to update last message: %w", err)
	}

	return nil
}

// IncrementUnread bumps the unread counter on every participant except the
// sender in a single batch
func (r *ConversationRepository) IncrementUnread(ctx context.Context, conversationID, senderID string) error {
	participants, err := r.GetParticipants(ctx, conversationID)
	if err != nil {
		return err
	}

	batch := r.client.Batch()
	updates := 0
	for _, p := range participants {
		if p.UserID == senderID {
			continue
		}
		ref := r.client.Collection(participantsCollection).Doc(participantDocID(conversationID, p.UserID))
		batch.Update(ref, []firestore.Update{
			{Path: "unreadCount", Value: firestore.Increment(1)},
		})
		updates++
	}

	if updates == 0 {
		return nil
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to increment unread counts: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a conversation
func (r *ConversationRepository) Deactivate(ctx context.Context, conversationID string) error {
	_, err := r.client.Collection(conversationsCollection).Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate conversation: %w", err)
	}

	return nil
}

// RemoveParticipant soft-removes a user from a conversation, preserving history
func (r *ConversationRepository) RemoveParticipant(ctx context.Context, conversationID, userID string) error {
	_, err := r.client.Collection(participantsCollection).
		Doc(participantDocID(conversationID, userID)).
		Update(ctx, []firestore.Update{
			{Path: "isActive", Value: false},
		})
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return nil
}

// Watch subscribes to changes of a single conversation document. The callback
// receives the current document state on every change until the returned
// unsubscribe function is called.
func (r *ConversationRepository) Watch(ctx context.Context, conversationID string, fn func(*domain.Conversation)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		metrics.ChatSubscriptionsActive.Inc()
		defer metrics.ChatSubscriptionsActive.Dec()

		iter := r.client.Collection(conversationsCollection).Doc(conversationID).Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					metrics.ChatSubscriptionErrorsTotal.Inc()
					logger.Error("Conversation snapshot stream failed",
						zap.String("conversation_id", conversationID),
						zap.Error(err))
				}
				return
			}
			if !snap.Exists() {
				continue
			}

			conversation := &domain.Conversation{}
			if err := snap.DataTo(conversation); err != nil {
				logger.Warn("Failed to decode conversation snapshot",
					zap.String("conversation_id", conversationID),
					zap.Error(err))
				continue
			}
			conversation.ID = snap.Ref.ID

			fn(conversation)
		}
	}()

	return cancel
}
