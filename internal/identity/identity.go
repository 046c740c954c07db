package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"eduportal-backend/internal/domain"
)

// User is the resolved identity of an authenticated principal
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
}

// Provider resolves identities for the chat and admin layers. Consumers
// depend on this interface rather than reading auth state directly, so tests
// can substitute a fixed identity.
type Provider interface {
	// CurrentUser returns the authenticated user carried by the context
	CurrentUser(ctx context.Context) (*User, error)
	// Lookup resolves a user by ID, returning a minimal identity when no
	// profile is known
	Lookup(ctx context.Context, userID string) (*User, error)
}

type contextKey string

const userContextKey contextKey = "identity_user"

// WithUser attaches an authenticated user to the context
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the authenticated user from the context
func FromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// ProfileStore is the cache the provider consults for display names
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

// Service is the default Provider backed by the profile cache
type Service struct {
	profiles ProfileStore
}

// NewService creates a new identity Service
func NewService(profiles ProfileStore) *Service {
	return &Service{profiles: profiles}
}

// CurrentUser returns the authenticated user carried by the context
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	user, ok := FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return user, nil
}

// Lookup resolves a user by ID through the profile cache. Unknown users get
// a minimal identity with just the ID so callers can still derive a label.
func (s *Service) Lookup(ctx context.Context, userID string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return &User{ID: userID}, nil
	}

	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		return &User{ID: userID}, nil
	}

	return &User{
		ID:       userID,
		Email:    profile.Email,
		Name:     profile.DisplayName,
		UserType: profile.UserType,
	}, nil
}
