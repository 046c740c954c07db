package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduportal-backend/pkg/logger"
)

// Provider defines the interface for sending push notifications
type Provider interface {
	Send(ctx context.Context, notification *Notification, tokens []string) (*SendResult, error)
}

// SendResult contains the result of a push notification send operation
type SendResult struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
	Errors        []error
}

// Notification represents a push notification payload
type Notification struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"` // high, normal
	Sound    string            `json:"sound,omitempty"`
	Badge    *int              `json:"badge,omitempty"`
}

// TokenType represents the type of push notification token
type TokenType string

const (
	TokenTypeFCM  TokenType = "fcm"
	TokenTypeAPNs TokenType = "apns"
)

// Token represents a push notification token registered by a device
type Token struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Token    string    `json:"token"`
	Type     TokenType `json:"type"`
	Platform string    `json:"platform,omitempty"` // ios, android, web
	Active   bool      `json:"active"`
}

// TokenRepository defines the interface for storing and retrieving push tokens
type TokenRepository interface {
	Store(ctx context.Context, token *Token) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Token, error)
	Delete(ctx context.Context, userID uuid.UUID, token string) error
	MarkInactive(ctx context.Context, token string) error
}

// Service handles push notification operations
type Service struct {
	provider Provider
	repo     TokenRepository
}

// NewService creates a new push notification service
func NewService(provider Provider, repo TokenRepository) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
	}
}

// RegisterToken registers a push notification token for a user
func (s *Service) RegisterToken(ctx context.Context, token *Token) error {
	token.Active = true
	return s.repo.Store(ctx, token)
}

// UnregisterToken removes a push notification token
func (s *Service) UnregisterToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.Delete(ctx, userID, token)
}

// SendMessageNotification pushes a new-message notification to the given users
func (s *Service) SendMessageNotification(ctx context.Context, conversationID string, senderName, preview string, recipientIDs []uuid.UUID) error {
	notification := &Notification{
		Title:    senderName,
		Body:     preview,
		Priority: "high",
		Sound:    "default",
		Data: map[string]string{
			"type":            "message",
			"conversation_id": conversationID,
			"sender_name":     senderName,
		},
	}

	var allTokens []string
	for _, userID := range recipientIDs {
		tokens, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			logger.Warn("Failed to get push tokens for user",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		for _, token := range tokens {
			if token.Active {
				allTokens = append(allTokens, token.Token)
			}
		}
	}

	if len(allTokens) == 0 {
		return nil
	}

	result, err := s.provider.Send(ctx, notification, allTokens)
	if err != nil {
		return fmt.Errorf("failed to send message notification: %w", err)
	}

	logger.Info("Message notification sent",
		zap.String("conversation_id", conversationID),
		zap.Int("success_count", result.SuccessCount),
		zap.Int("failure_count", result.FailureCount))

	for _, invalid := range result.InvalidTokens {
		if err := s.repo.MarkInactive(ctx, invalid); err != nil {
			logger.Warn("Failed to mark push token inactive",
				zap.String("token_prefix", maskPushToken(invalid)),
				zap.Error(err))
		}
	}

	return nil
}

// MockProvider is a no-op provider used when no push backend is configured
type MockProvider struct{}

// Send implements Provider by pretending every token succeeded
func (m *MockProvider) Send(ctx context.Context, notification *Notification, tokens []string) (*SendResult, error) {
	logger.Debug("Mock push provider: dropping notification",
		zap.String("title", notification.Title),
		zap.Int("token_count", len(tokens)))
	return &SendResult{SuccessCount: len(tokens)}, nil
}

// maskPushToken returns a short prefix safe for logging
func maskPushToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8] + "..."
}
