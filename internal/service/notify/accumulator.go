package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"eduportal-backend/internal/domain"
	"eduportal-backend/pkg/metrics"
)

// DefaultDisplayWindow is how long a banner stays visible without dismissal
const DefaultDisplayWindow = 5000 * time.Millisecond

// Accumulator holds the transient new-message banners for one connected
// client. Entries are deduplicated by message ID and expire after a fixed
// display window unless dismissed first.
type Accumulator struct {
	mu            sync.Mutex
	notifications []*domain.Notification
	byMessageID   map[string]string // message ID -> notification ID
	displayWindow time.Duration
	onChange      func([]*domain.Notification)
}

// NewAccumulator creates an Accumulator with the default display window
func NewAccumulator(onChange func([]*domain.Notification)) *Accumulator {
	return NewAccumulatorWithWindow(DefaultDisplayWindow, onChange)
}

// NewAccumulatorWithWindow creates an Accumulator with a custom display
// window
func NewAccumulatorWithWindow(window time.Duration, onChange func([]*domain.Notification)) *Accumulator {
	return &Accumulator{
		byMessageID:   make(map[string]string),
		displayWindow: window,
		onChange:      onChange,
	}
}

// Add appends a banner for the given message unless one already exists for
// the same message ID. Returns the created notification, or nil when the
// message was already represented.
func (a *Accumulator) Add(message *domain.Message, conversation *domain.Conversation, senderName string) *domain.Notification {
	a.mu.Lock()

	if _, exists := a.byMessageID[message.ID]; exists {
		a.mu.Unlock()
		return nil
	}

	notification := &domain.Notification{
		ID:           uuid.NewString(),
		Message:      message,
		Conversation: conversation,
		SenderName:   senderName,
		Timestamp:    time.Now().UTC(),
	}

	a.notifications = append(a.notifications, notification)
	a.byMessageID[message.ID] = notification.ID
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	metrics.ChatNotificationsShownTotal.Inc()
	a.notify(snapshot)

	// Each entry gets its own expiry timer. Removing early leaves the
	// timer running; the late Remove is a safe no-op.
	id := notification.ID
	time.AfterFunc(a.displayWindow, func() {
		if a.Remove(id) {
			metrics.ChatNotificationsExpiredTotal.Inc()
		}
	})

	return notification
}

// Remove deletes a banner by notification ID. Safe to call for IDs that were
// already removed; reports whether an entry was actually deleted.
func (a *Accumulator) Remove(id string) bool {
	a.mu.Lock()

	index := -1
	for i, n := range a.notifications {
		if n.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		a.mu.Unlock()
		return false
	}

	removed := a.notifications[index]
	a.notifications = append(a.notifications[:index], a.notifications[index+1:]...)
	delete(a.byMessageID, removed.Message.ID)
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snapshot)
	return true
}

// Active returns the current banner list, newest last
func (a *Accumulator) Active() []*domain.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// snapshotLocked copies the list so callers never observe in-place mutation
func (a *Accumulator) snapshotLocked() []*domain.Notification {
	snapshot := make([]*domain.Notification, len(a.notifications))
	copy(snapshot, a.notifications)
	return snapshot
}

func (a *Accumulator) notify(snapshot []*domain.Notification) {
	if a.onChange != nil {
		a.onChange(snapshot)
	}
}
