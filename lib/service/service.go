package service

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/lib/validation"
	"github.com/relayhub/relayhub.go/rabbitmq"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

// EventStore is the persistence boundary the relay talks to. The bun
// implementation lives in lib/store; tests substitute an in-memory fake.
type EventStore interface {
	// Save persists an event; saving an already stored id is a no-op
	// that still reports success.
	Save(ctx context.Context, ev *nostr.Event) error
	// FindMatching returns the non-tombstoned events matching any of the
	// filters, deduplicated by id.
	FindMatching(ctx context.Context, filters nostr.Filters) ([]nostr.Event, error)
	// MarkDeleted tombstones the event with the given id when it was
	// published by pubkey, reporting whether a row changed.
	MarkDeleted(ctx context.Context, eventID string, pubkey string) (bool, error)
}

type RelayService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	Store          EventStore
	Registry       *SubscriptionRegistry
	Validator      *validation.EventValidator
	EventPubSub    *Pubsub
	RabbitMQClient rabbitmq.Client
}

func NewRelayService(cfg *Config, db *bun.DB, logger *lecho.Logger, eventStore EventStore) *RelayService {
	return &RelayService{
		Config:      cfg,
		DB:          db,
		Logger:      logger,
		Store:       eventStore,
		Registry:    NewSubscriptionRegistry(),
		Validator:   validation.NewEventValidator(),
		EventPubSub: NewPubsub(),
	}
}
