package domain

import (
	"time"
)

// Conversation types
const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
)

// Participant roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// Conversation represents conversation metadata
// Maps to the Firestore conversations collection
type Conversation struct {
	ID              string                 `json:"id" firestore:"-"`
	Type            string                 `json:"type" firestore:"type"` // direct, group
	Title           string                 `json:"title,omitempty" firestore:"title,omitempty"`
	Participants    []string               `json:"participants" firestore:"participants"`
	LastMessage     *Message               `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageTime time.Time              `json:"last_message_time,omitempty" firestore:"lastMessageTime,omitempty"`
	IsActive        bool                   `json:"is_active" firestore:"isActive"`
	CreatedBy       string                 `json:"created_by" firestore:"createdBy"`
	CreatedAt       time.Time              `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time              `json:"updated_at" firestore:"updatedAt"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`

	// UnreadCount is derived from the acting user's participant record.
	// The per-participant counter is authoritative.
	UnreadCount int `json:"unread_count" firestore:"-"`
}

// ConversationParticipant represents a user's membership record in a conversation
// Maps to the Firestore conversation_participants collection
type ConversationParticipant struct {
	ID             string    `json:"id" firestore:"-"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	UserID         string    `json:"user_id" firestore:"userId"`
	Role           string    `json:"role" firestore:"role"` // admin, member, viewer
	JoinedAt       time.Time `json:"joined_at" firestore:"joinedAt"`
	LastReadAt     time.Time `json:"last_read_at" firestore:"lastReadAt"`
	UnreadCount    int       `json:"unread_count" firestore:"unreadCount"`
	IsActive       bool      `json:"is_active" firestore:"isActive"`
}

// GroupMember is the shape of entries in metadata.groupMembers
type GroupMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConversationCreate represents data to create a new conversation
type ConversationCreate struct {
	Type         string                 `json:"type" binding:"required,oneof=direct group"`
	Title        string                 `json:"title,omitempty"`
	Participants []string               `json:"participants" binding:"required,min=1"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
