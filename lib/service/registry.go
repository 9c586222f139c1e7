package service

import (
	"sync"

	"github.com/nbd-wtf/go-nostr"
)

// Subscription is immutable once added to the registry; replacing a
// subscription swaps in a fresh value, so a snapshot can be iterated
// without holding the registry lock.
type Subscription struct {
	Client  *Client
	ID      string
	Filters nostr.Filters
}

type subscriptionKey struct {
	clientID       string
	subscriptionID string
}

// SubscriptionRegistry is the process-wide map of live subscriptions.
// Entries are keyed by (client, subscription id): the same subscription id
// on two different connections never collides.
type SubscriptionRegistry struct {
	mu   sync.RWMutex
	subs map[subscriptionKey]*Subscription
}

func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{
		subs: make(map[subscriptionKey]*Subscription),
	}
}

// Add inserts the subscription, replacing any previous one the client
// registered under the same id.
func (r *SubscriptionRegistry) Add(client *Client, subscriptionID string, filters nostr.Filters) {
	sub := &Subscription{
		Client:  client,
		ID:      subscriptionID,
		Filters: filters,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[subscriptionKey{client.ID, subscriptionID}] = sub
}

// Remove drops one subscription. Unknown ids are a no-op.
func (r *SubscriptionRegistry) Remove(client *Client, subscriptionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, subscriptionKey{client.ID, subscriptionID})
}

// RemoveClient drops every subscription the client owns, returning how
// many were removed. Called when a connection goes away.
func (r *SubscriptionRegistry) RemoveClient(client *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.subs {
		if key.clientID == client.ID {
			delete(r.subs, key)
			removed++
		}
	}
	return removed
}

// Snapshot returns a copy of the current subscriptions for dispatch
// iteration, so broadcasting never races with adds and removes.
func (r *SubscriptionRegistry) Snapshot() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		snapshot = append(snapshot, sub)
	}
	return snapshot
}

// Len reports the number of live subscriptions.
func (r *SubscriptionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
