package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
)

// Pubsub is the internal firehose of admitted events. Background consumers
// (webhook poster, rabbitmq publisher) subscribe to a topic and receive
// every event published to it. It is unrelated to client subscriptions,
// which live in the SubscriptionRegistry.
type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan nostr.Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan nostr.Event)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan nostr.Event) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan nostr.Event)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg nostr.Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		ch <- msg
	}
}
