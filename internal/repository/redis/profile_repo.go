package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"eduportal-backend/internal/domain"
)

// cached profiles are refreshed from the identity token on each login
const profileExpiry = 24 * time.Hour

// ProfileRepository caches user profile data in Redis
type ProfileRepository struct {
	client *redis.Client
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(client *redis.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Set stores a user profile
func (r *ProfileRepository) Set(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKey(profile.UserID), data, profileExpiry).Err(); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	return nil
}

// Get retrieves a user profile, returning nil when not cached
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	data, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := &domain.Profile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return profile, nil
}

// Delete removes a cached profile
func (r *ProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil
}
