package models

import (
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/uptrace/bun"
)

// Event : Event Model
//
// Events are immutable once accepted. The only column ever mutated after
// insert is Deleted, the soft-delete tombstone flag.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:event"`

	ID         string     `json:"id" bun:",pk"`
	Pubkey     string     `json:"pubkey" bun:",notnull"`
	CreatedAt  int64      `json:"created_at" bun:",notnull"`
	Kind       int        `json:"kind" bun:",notnull"`
	Tags       nostr.Tags `json:"tags" bun:"type:jsonb,notnull"`
	Content    string     `json:"content"`
	Sig        string     `json:"sig" bun:",notnull"`
	Deleted    bool       `json:"-" bun:",notnull,default:false"`
	ReceivedAt time.Time  `json:"-" bun:",nullzero,notnull,default:current_timestamp"`
}

// EventTag : EventTag Model
//
// One row per tag entry that carries a value, so that `#<name>` filter
// constraints can be answered with an indexed lookup instead of scanning
// the jsonb column.
type EventTag struct {
	bun.BaseModel `bun:"table:event_tags,alias:tag"`

	ID      int64  `bun:",pk,autoincrement"`
	EventID string `bun:",notnull"`
	Name    string `bun:",notnull"`
	Value   string `bun:",notnull"`
}

// EventFromNostr converts a wire event into its persistence model.
func EventFromNostr(ev *nostr.Event) *Event {
	return &Event{
		ID:        ev.ID,
		Pubkey:    ev.PubKey,
		CreatedAt: int64(ev.CreatedAt),
		Kind:      ev.Kind,
		Tags:      ev.Tags,
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
}

// ToNostr converts a stored event back into its wire representation.
func (e *Event) ToNostr() nostr.Event {
	tags := e.Tags
	if tags == nil {
		tags = nostr.Tags{}
	}
	return nostr.Event{
		ID:        e.ID,
		PubKey:    e.Pubkey,
		CreatedAt: nostr.Timestamp(e.CreatedAt),
		Kind:      e.Kind,
		Tags:      tags,
		Content:   e.Content,
		Sig:       e.Sig,
	}
}

// TagRows expands the event's tags into EventTag rows. Tag entries without
// a value (single-element tags) have nothing to index and are skipped.
func (e *Event) TagRows() []EventTag {
	rows := make([]EventTag, 0, len(e.Tags))
	for _, tag := range e.Tags {
		if len(tag) < 2 {
			continue
		}
		rows = append(rows, EventTag{
			EventID: e.ID,
			Name:    tag[0],
			Value:   tag[1],
		})
	}
	return rows
}
