// Package store is the persistence boundary of the relay: idempotent event
// inserts, filter-driven queries and soft deletes, all on top of bun.
package store

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/db/models"
	"github.com/uptrace/bun"
)

type EventStore struct {
	DB *bun.DB
}

func NewEventStore(db *bun.DB) *EventStore {
	return &EventStore{DB: db}
}

// Save persists the event and its tag index rows in one transaction.
// Publishing is idempotent: a duplicate id hits the primary-key conflict,
// inserts nothing and still reports success. A tombstoned event is never
// resurrected because the conflict clause does not touch existing rows.
func (s *EventStore) Save(ctx context.Context, ev *nostr.Event) error {
	event := models.EventFromNostr(ev)

	return s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(event).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		inserted, err := res.RowsAffected()
		if err != nil || inserted == 0 {
			// duplicate id: nothing was inserted, so there is nothing to index
			return err
		}
		tagRows := event.TagRows()
		if len(tagRows) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&tagRows).Exec(ctx)
		return err
	})
}

// FindMatching runs each filter as an independent query over live
// (non-tombstoned) events, ordered by created_at descending and capped by
// the filter's limit, then unions the per-filter results deduplicated by
// id. The union keeps the per-filter ordering of first appearance; it is
// NOT re-sorted globally across filters.
func (s *EventStore) FindMatching(ctx context.Context, filters nostr.Filters) ([]nostr.Event, error) {
	seen := make(map[string]bool)
	matches := []nostr.Event{}

	for _, f := range filters {
		rows := []models.Event{}
		if err := s.filterQuery(&rows, f).Scan(ctx); err != nil {
			return nil, err
		}
		for i := range rows {
			if seen[rows[i].ID] {
				continue
			}
			seen[rows[i].ID] = true
			matches = append(matches, rows[i].ToNostr())
		}
	}
	return matches, nil
}

// MarkDeleted flips the tombstone flag of the event with the given id,
// but only when it was published by the deleting author. It reports
// whether a row actually changed; an unknown id or a foreign pubkey is
// not an error, just a no-op.
func (s *EventStore) MarkDeleted(ctx context.Context, eventID string, pubkey string) (bool, error) {
	res, err := s.DB.NewUpdate().
		Model((*models.Event)(nil)).
		Set("deleted = TRUE").
		Where("id = ?", eventID).
		Where("pubkey = ?", pubkey).
		Where("deleted = FALSE").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *EventStore) filterQuery(rows *[]models.Event, f nostr.Filter) *bun.SelectQuery {
	q := s.DB.NewSelect().
		Model(rows).
		Where("event.deleted = FALSE").
		OrderExpr("event.created_at DESC")

	if len(f.IDs) > 0 {
		q = q.Where("event.id IN (?)", bun.In(f.IDs))
	}
	if len(f.Authors) > 0 {
		q = q.Where("event.pubkey IN (?)", bun.In(f.Authors))
	}
	if len(f.Kinds) > 0 {
		q = q.Where("event.kind IN (?)", bun.In(f.Kinds))
	}
	if f.Since != nil {
		q = q.Where("event.created_at >= ?", int64(*f.Since))
	}
	if f.Until != nil {
		q = q.Where("event.created_at <= ?", int64(*f.Until))
	}
	for name, values := range f.Tags {
		if len(values) == 0 {
			continue
		}
		q = q.Where(
			"EXISTS (SELECT 1 FROM event_tags AS tag WHERE tag.event_id = event.id AND tag.name = ? AND tag.value IN (?))",
			name, bun.In(values),
		)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}
