package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduportal-backend/internal/domain"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
)

// PushSender is the delivery surface the dispatcher needs
type PushSender interface {
	SendMessageNotification(ctx context.Context, conversationID string, senderName, preview string, recipientIDs []uuid.UUID) error
}

// PresenceChecker reports whether a user currently has a live session
type PresenceChecker interface {
	IsUserOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

// PushDispatcher sends device push notifications for new messages. Online
// users get banners through their live session instead, so only offline
// recipients are pushed.
type PushDispatcher struct {
	sender   PushSender
	presence PresenceChecker
}

// NewPushDispatcher creates a new push dispatcher
func NewPushDispatcher(sender PushSender, presence PresenceChecker) *PushDispatcher {
	return &PushDispatcher{
		sender:   sender,
		presence: presence,
	}
}

// NotifyNewMessage pushes a new-message notification to the offline subset of
// recipients. Failures are logged, never surfaced to the sender.
func (d *PushDispatcher) NotifyNewMessage(ctx context.Context, message *domain.Message, senderName string, recipientIDs []string) {
	offline := make([]uuid.UUID, 0, len(recipientIDs))
	for _, idStr := range recipientIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}

		online, err := d.presence.IsUserOnline(ctx, id)
		if err != nil {
			logger.Warn("Failed to check presence, pushing anyway",
				zap.String("user_id", idStr),
				zap.Error(err))
			online = false
		}
		if !online {
			offline = append(offline, id)
		}
	}

	if len(offline) == 0 {
		return
	}

	preview := message.Content
	if preview == "" && len(message.Attachments) > 0 {
		preview = "Sent an attachment"
	}

	if err := d.sender.SendMessageNotification(ctx, message.ConversationID, senderName, preview, offline); err != nil {
		metrics.ChatPushSentTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to send push notification",
			zap.String("conversation_id", message.ConversationID),
			zap.Int("recipient_count", len(offline)),
			zap.Error(err))
		return
	}

	metrics.ChatPushSentTotal.WithLabelValues("ok").Inc()
}
