package domain

import (
	"time"
)

// Notification is a transient new-message banner. It lives only in memory:
// created when a subscription observes a message from another user, removed
// after the display window elapses or on explicit dismissal.
type Notification struct {
	ID           string        `json:"id"`
	Message      *Message      `json:"message"`
	Conversation *Conversation `json:"conversation"`
	SenderName   string        `json:"sender_name"`
	Timestamp    time.Time     `json:"timestamp"`
}
