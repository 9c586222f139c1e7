package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/common"
	"github.com/relayhub/relayhub.go/lib/filter"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

// fakeEventStore keeps events in memory with the same contract as the bun
// store: idempotent saves, tombstones, owner-checked deletes.
type fakeEventStore struct {
	mu        sync.Mutex
	events    []*nostr.Event
	deleted   map[string]bool
	saveErr   error
	findErr   error
	markErr   error
	saveCalls int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{deleted: make(map[string]bool)}
}

func (s *fakeEventStore) Save(ctx context.Context, ev *nostr.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, existing := range s.events {
		if existing.ID == ev.ID {
			return nil
		}
	}
	clone := *ev
	s.events = append(s.events, &clone)
	return nil
}

func (s *fakeEventStore) FindMatching(ctx context.Context, filters nostr.Filters) ([]nostr.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	result := []nostr.Event{}
	for _, ev := range s.events {
		if s.deleted[ev.ID] {
			continue
		}
		if filter.MatchesAny(ev, filters) {
			result = append(result, *ev)
		}
	}
	return result, nil
}

func (s *fakeEventStore) MarkDeleted(ctx context.Context, eventID string, pubkey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return false, s.markErr
	}
	for _, ev := range s.events {
		if ev.ID == eventID && ev.PubKey == pubkey && !s.deleted[eventID] {
			s.deleted[eventID] = true
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeEventStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func newTestService(store EventStore) *RelayService {
	cfg := &Config{ClientQueueSize: 8}
	logger := lecho.New(io.Discard)
	return NewRelayService(cfg, nil, logger, store)
}

func testEvent(idChar string, kind int) *nostr.Event {
	return &nostr.Event{
		ID:        strings.Repeat(idChar, 64),
		PubKey:    strings.Repeat("b", 64),
		CreatedAt: nostr.Timestamp(1000),
		Kind:      kind,
		Tags:      nostr.Tags{},
		Content:   "hello",
		Sig:       strings.Repeat("f", 128),
	}
}

// drain empties a client's outbound queue without blocking.
func drain(c *Client) [][]interface{} {
	msgs := [][]interface{}{}
	for {
		select {
		case msg := <-c.Outbound():
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestHandleEventMessageAcceptsAndBroadcasts(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	client := NewClient(8)
	svc.Registry.Add(client, "sub1", nostr.Filters{{Kinds: []int{1}}})

	ev := testEvent("1", 1)
	accepted, message := svc.HandleEventMessage(context.Background(), ev)

	assert.True(t, accepted)
	assert.Equal(t, common.MessageEventSaved, message)
	assert.Equal(t, 1, store.count())

	msgs := drain(client)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "EVENT", msgs[0][0])
	assert.Equal(t, "sub1", msgs[0][1])
}

func TestHandleEventMessageRejectsMalformed(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	ev := testEvent("1", 1)
	ev.ID = "tooshort"

	accepted, message := svc.HandleEventMessage(context.Background(), ev)

	assert.False(t, accepted)
	assert.Equal(t, common.MessageInvalidEvent, message)
	assert.Equal(t, 0, store.count())
}

func TestHandleEventMessageStoreFailure(t *testing.T) {
	store := newFakeEventStore()
	store.saveErr = errors.New("db gone")
	svc := newTestService(store)

	accepted, message := svc.HandleEventMessage(context.Background(), testEvent("1", 1))

	assert.False(t, accepted)
	assert.Equal(t, common.MessageProcessingError, message)
}

func TestHandleEventMessageIsIdempotent(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	ev := testEvent("1", 1)
	accepted, _ := svc.HandleEventMessage(context.Background(), ev)
	assert.True(t, accepted)
	accepted, message := svc.HandleEventMessage(context.Background(), ev)
	assert.True(t, accepted)
	assert.Equal(t, common.MessageEventSaved, message)
	assert.Equal(t, 1, store.count())
}

func TestHandleEventMessageVerifiesSignature(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)
	svc.Config.RequireSigVerification = true

	sk := nostr.GeneratePrivateKey()
	signed := &nostr.Event{
		CreatedAt: nostr.Now(),
		Kind:      1,
		Tags:      nostr.Tags{},
		Content:   "signed",
	}
	assert.NoError(t, signed.Sign(sk))

	accepted, message := svc.HandleEventMessage(context.Background(), signed)
	assert.True(t, accepted)
	assert.Equal(t, common.MessageEventSaved, message)

	tampered := *signed
	tampered.Content = "tampered"
	accepted, message = svc.HandleEventMessage(context.Background(), &tampered)
	assert.False(t, accepted)
	assert.Equal(t, common.MessageInvalidSig, message)
}

func TestHandleDeletion(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	target := testEvent("1", 1)
	accepted, _ := svc.HandleEventMessage(context.Background(), target)
	assert.True(t, accepted)

	// a live subscription matching everything must not see the deletion event
	client := NewClient(8)
	svc.Registry.Add(client, "firehose", nostr.Filters{{}})

	deletion := testEvent("2", common.KindDeletion)
	deletion.Tags = nostr.Tags{{common.TagEvent, target.ID}}

	accepted, message := svc.HandleEventMessage(context.Background(), deletion)
	assert.True(t, accepted)
	assert.Equal(t, "Deleted 1 events", message)
	assert.True(t, store.deleted[target.ID])
	assert.Equal(t, 2, store.count())
	assert.Empty(t, drain(client))

	// the tombstoned event no longer comes back from queries
	stored, err := store.FindMatching(context.Background(), nostr.Filters{{IDs: []string{target.ID}}})
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestHandleDeletionSkipsForeignEvents(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	target := testEvent("1", 1)
	target.PubKey = strings.Repeat("c", 64)
	accepted, _ := svc.HandleEventMessage(context.Background(), target)
	assert.True(t, accepted)

	deletion := testEvent("2", common.KindDeletion)
	deletion.Tags = nostr.Tags{{common.TagEvent, target.ID}}

	accepted, message := svc.HandleEventMessage(context.Background(), deletion)
	assert.True(t, accepted)
	assert.Equal(t, "Deleted 0 events", message)
	assert.False(t, store.deleted[target.ID])
}

func TestHandleDeletionWithoutTargets(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	deletion := testEvent("2", common.KindDeletion)
	deletion.Tags = nostr.Tags{{common.TagPubkey, strings.Repeat("c", 64)}}

	accepted, message := svc.HandleEventMessage(context.Background(), deletion)
	assert.False(t, accepted)
	assert.Equal(t, common.MessageInvalidDeletion, message)
	assert.Equal(t, 0, store.count())
}

func TestBroadcastEventRespectsFilters(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	notes := NewClient(8)
	metadata := NewClient(8)
	svc.Registry.Add(notes, "notes", nostr.Filters{{Kinds: []int{1}}})
	svc.Registry.Add(metadata, "metadata", nostr.Filters{{Kinds: []int{0}}})

	svc.BroadcastEvent(testEvent("1", 1))

	assert.Len(t, drain(notes), 1)
	assert.Empty(t, drain(metadata))
}

func TestBroadcastEventSkipsClosedClients(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	gone := NewClient(8)
	svc.Registry.Add(gone, "sub", nostr.Filters{{}})
	gone.Close()

	// must not panic or block
	svc.BroadcastEvent(testEvent("1", 1))
	assert.Empty(t, drain(gone))
}

func TestBroadcastEventDropsOnFullQueue(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	slow := NewClient(1)
	svc.Registry.Add(slow, "sub", nostr.Filters{{}})

	svc.BroadcastEvent(testEvent("1", 1))
	svc.BroadcastEvent(testEvent("2", 1))
	svc.BroadcastEvent(testEvent("3", 1))

	assert.Len(t, drain(slow), 1)
	assert.False(t, slow.IsClosed())
}
