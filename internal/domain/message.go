package domain

import (
	"time"
)

// Message content types
const (
	ContentTypeText   = "text"
	ContentTypeFile   = "file"
	ContentTypeImage  = "image"
	ContentTypeSystem = "system"
)

// Message represents a chat message entity
// Maps to the Firestore messages collection. Messages are immutable once
// created except for the isRead, editedAt and deletedAt fields.
type Message struct {
	ID             string       `json:"id" firestore:"-"`
	ConversationID string       `json:"conversation_id" firestore:"conversationId"`
	SenderID       string       `json:"sender_id" firestore:"senderId"`
	SenderName     string       `json:"sender_name,omitempty" firestore:"senderName,omitempty"`
	Content        string       `json:"content" firestore:"content"`
	ContentType    string       `json:"content_type" firestore:"contentType"` // text, file, image, system
	Timestamp      time.Time    `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	IsRead         bool         `json:"is_read" firestore:"isRead"`
	Attachments    []Attachment `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	ReplyTo        string       `json:"reply_to,omitempty" firestore:"replyTo,omitempty"`
	EditedAt       *time.Time   `json:"edited_at,omitempty" firestore:"editedAt,omitempty"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// Attachment describes a file attached to a message
type Attachment struct {
	ID         string    `json:"id" firestore:"id"`
	Name       string    `json:"name" firestore:"name"`
	URL        string    `json:"url" firestore:"url"`
	Type       string    `json:"type" firestore:"type"`
	Size       int64     `json:"size" firestore:"size"`
	UploadedAt time.Time `json:"uploaded_at" firestore:"uploadedAt"`
}

// MessageCreate represents data needed to send a message
type MessageCreate struct {
	ConversationID string       `json:"conversation_id" binding:"required"`
	Content        string       `json:"content" binding:"required"`
	ContentType    string       `json:"content_type" binding:"required,oneof=text file image system"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	ReplyTo        string       `json:"reply_to,omitempty"`
}
