package notify

import (
	"sync"
)

// Registry owns the per-conversation listener teardown functions. All
// subscription lifecycles run through it so that teardown is guaranteed
// exhaustive: no listener outlives a Clear call.
type Registry struct {
	mu           sync.Mutex
	unsubscribes map[string]func()
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{unsubscribes: make(map[string]func())}
}

// Register stores the teardown function for a conversation's listener. A
// previous listener for the same conversation is torn down first, so at most
// one subscription exists per conversation.
func (r *Registry) Register(conversationID string, unsubscribe func()) {
	r.mu.Lock()
	previous := r.unsubscribes[conversationID]
	r.unsubscribes[conversationID] = unsubscribe
	r.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// Unregister tears down a single conversation's listener
func (r *Registry) Unregister(conversationID string) {
	r.mu.Lock()
	unsubscribe := r.unsubscribes[conversationID]
	delete(r.unsubscribes, conversationID)
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Clear tears down every registered listener
func (r *Registry) Clear() {
	r.mu.Lock()
	unsubscribes := r.unsubscribes
	r.unsubscribes = make(map[string]func())
	r.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
}

// Count returns the number of registered listeners
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unsubscribes)
}
