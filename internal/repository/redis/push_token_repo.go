package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/push"
)

// push token retention; refreshed on every Store
const pushTokenExpiry = 30 * 24 * time.Hour

// PushTokenRepository handles push notification token storage in Redis
type PushTokenRepository struct {
	client *redis.Client
}

// NewPushTokenRepository creates a new PushTokenRepository
func NewPushTokenRepository(client *redis.Client) *PushTokenRepository {
	return &PushTokenRepository{client: client}
}

func tokenKey(token string) string {
	return fmt.Sprintf("push:token:%s", token)
}

func userTokensKey(userID uuid.UUID) string {
	return fmt.Sprintf("push:user:%s:tokens", userID)
}

// Store stores a push notification token
func (r *PushTokenRepository) Store(ctx context.Context, token *push.Token) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := r.client.Set(ctx, tokenKey(token.Token), data, pushTokenExpiry).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := r.client.SAdd(ctx, userTokensKey(token.UserID), token.Token).Err(); err != nil {
		return fmt.Errorf("failed to add token to user set: %w", err)
	}

	if err := r.client.Expire(ctx, userTokensKey(token.UserID), pushTokenExpiry).Err(); err != nil {
		logger.Warn("Failed to set expiration on user tokens set",
			zap.String("user_id", token.UserID.String()),
			zap.Error(err))
	}

	logger.Debug("Push token stored",
		zap.String("user_id", token.UserID.String()),
		zap.String("token_type", string(token.Type)))

	return nil
}

// GetByUserID retrieves all tokens registered by a user
func (r *PushTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*push.Token, error) {
	tokenStrs, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user tokens: %w", err)
	}

	var tokens []*push.Token
	for _, tokenStr := range tokenStrs {
		data, err := r.client.Get(ctx, tokenKey(tokenStr)).Bytes()
		if err != nil {
			if err == redis.Nil {
				// Token document expired; drop the dangling set member
				r.client.SRem(ctx, userTokensKey(userID), tokenStr)
				continue
			}
			return nil, fmt.Errorf("failed to get token: %w", err)
		}

		token := &push.Token{}
		if err := json.Unmarshal(data, token); err != nil {
			logger.Warn("Failed to unmarshal push token",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Delete removes a token registration
func (r *PushTokenRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if err := r.client.SRem(ctx, userTokensKey(userID), token).Err(); err != nil {
		return fmt.Errorf("failed to remove token from user set: %w", err)
	}

	return nil
}

// MarkInactive flags a token so it is skipped on future sends
func (r *PushTokenRepository) MarkInactive(ctx context.Context, tokenStr string) error {
	data, err := r.client.Get(ctx, tokenKey(tokenStr)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to get token: %w", err)
	}

	token := &push.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return fmt.Errorf("failed to unmarshal token: %w", err)
	}

	token.Active = false

	updated, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := r.client.Set(ctx, tokenKey(tokenStr), updated, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}
