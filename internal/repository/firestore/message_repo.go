package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eduportal-backend/internal/domain"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
)

const (
	messagesCollection     = "messages"
	readReceiptsCollection = "read_receipts"
)

// MessageRepository handles message documents in Firestore
type MessageRepository struct {
	client *firestore.Client
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(client *firestore.Client) *MessageRepository {
	return &MessageRepository{client: client}
}

// Save persists a new message. The timestamp field carries the serverTimestamp
// tag, so the store assigns the authoritative time on write.
func (r *MessageRepository) Save(ctx context.Context, message *domain.Message) error {
	ref := r.client.Collection(messagesCollection).NewDoc()
	message.ID = ref.ID

	if _, err := ref.Create(ctx, message); err != nil {
		metrics.ChatMessagePersistedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to save message: %w", err)
	}
	metrics.ChatMessagePersistedTotal.WithLabelValues("ok").Inc()

	return nil
}

// GetByID retrieves a message by document ID
func (r *MessageRepository) GetByID(ctx context.Context, messageID string) (*domain.Message, error) {
	doc, err := r.client.Collection(messagesCollection).Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("message not found")
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	message := &domain.Message{}
	if err := doc.DataTo(message); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	message.ID = doc.Ref.ID

	return message, nil
}

// ListByConversation retrieves a conversation's messages ordered oldest first
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		OrderBy("timestamp", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var messages []*domain.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		message := &domain.Message{}
		if err := doc.DataTo(message); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, message)
	}

	return messages, nil
}

// Latest retrieves the newest message of a conversation, or nil when the
// conversation has no messages yet
func (r *MessageRepository) Latest(ctx context.Context, conversationID string) (*domain.Message, error) {
	iter := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		OrderBy("timestamp", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest message: %w", err)
	}

	message := &domain.Message{}
	if err := doc.DataTo(message); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	message.ID = doc.Ref.ID

	return message, nil
}

// readReceipt is written alongside read-state updates for auditability
type readReceipt struct {
	MessageID      string    `firestore:"messageId"`
	ConversationID string    `firestore:"conversationId"`
	UserID         string    `firestore:"userId"`
	ReadAt         time.Time `firestore:"readAt"`
}

// MarkRead flags the given messages as read for a user in a single batch:
// each message gets isRead=true plus a read receipt, and the user's
// participant record has its unread counter reset and lastReadAt refreshed.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, userID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := r.client.Batch()

	for _, id := range messageIDs {
		msgRef := r.client.Collection(messagesCollection).Doc(id)
		batch.Update(msgRef, []firestore.Update{
			{Path: "isRead", Value: true},
		})

		receiptRef := r.client.Collection(readReceiptsCollection).Doc(id + "_" + userID)
		batch.Set(receiptRef, &readReceipt{
			MessageID:      id,
			ConversationID: conversationID,
			UserID:         userID,
			ReadAt:         now,
		})
	}

	participantRef := r.client.Collection(participantsCollection).Doc(participantDocID(conversationID, userID))
	batch.Update(participantRef, []firestore.Update{
		{Path: "unreadCount", Value: 0},
		{Path: "lastReadAt", Value: now},
	})

	if _, err := batch.Commit(ctx); err != nil {
		metrics.ChatUnreadBatchFailedTotal.Inc()
		return fmt.Errorf("failed to mark messages as read: %w", err)
	}

	return nil
}

// Watch subscribes to the full message list of a conversation. The callback
// receives the complete result set ordered oldest first on every change until
// the returned unsubscribe function is called.
func (r *MessageRepository) Watch(ctx context.Context, conversationID string, fn func([]*domain.Message)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		metrics.ChatSubscriptionsActive.Inc()
		defer metrics.ChatSubscriptionsActive.Dec()

		iter := r.client.Collection(messagesCollection).
			Where("conversationId", "==", conversationID).
			OrderBy("timestamp", firestore.Asc).
			Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					metrics.ChatSubscriptionErrorsTotal.Inc()
					logger.Error("Message snapshot stream failed",
						zap.String("conversation_id", conversationID),
						zap.Error(err))
				}
				return
			}

			messages, err := collectMessages(snap.Documents)
			if err != nil {
				logger.Warn("Failed to decode message snapshot",
					zap.String("conversation_id", conversationID),
					zap.Error(err))
				continue
			}

			// Pending server timestamps resolve to nil in local snapshots,
			// so re-sort before handing the list out
			sort.SliceStable(messages, func(i, j int) bool {
				return messages[i].Timestamp.Before(messages[j].Timestamp)
			})

			fn(messages)
		}
	}()

	return cancel
}

func collectMessages(iter *firestore.DocumentIterator) ([]*domain.Message, error) {
	defer iter.Stop()

	var messages []*domain.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		message := &domain.Message{}
		if err := doc.DataTo(message); err != nil {
			return nil, err
		}
		message.ID = doc.Ref.ID
		messages = append(messages, message)
	}

	return messages, nil
}
