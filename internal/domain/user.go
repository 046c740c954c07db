package domain

import (
	"time"

	"github.com/google/uuid"
)

// User types
const (
	UserTypeStudent = "student"
	UserTypeStaff   = "staff"
	UserTypeAdmin   = "admin"
)

// Profile represents the cached user profile blob that backs the
// IdentityProvider. Persisted in Redis, not the document store.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	UserType    string    `json:"user_type"` // student, staff, admin
	AvatarURL   string    `json:"avatar_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
