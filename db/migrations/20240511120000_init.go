package migrations

import (
	"context"

	"github.com/relayhub/relayhub.go/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists
is used, otherwise it's going to result in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if _, err := db.NewCreateTable().Model((*models.Event)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.EventTag)(nil)).Exec(ctx); err != nil {
			return err
		}

		// the filter predicates query by author, kind, time and tag membership
		if _, err := db.NewCreateIndex().Model((*models.Event)(nil)).
			Index("events_pubkey_idx").Column("pubkey").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.Event)(nil)).
			Index("events_kind_idx").Column("kind").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.Event)(nil)).
			Index("events_created_at_idx").Column("created_at").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.EventTag)(nil)).
			Index("event_tags_name_value_idx").Column("name", "value").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.EventTag)(nil)).
			Index("event_tags_event_id_idx").Column("event_id").Exec(ctx); err != nil {
			return err
		}

		return nil
	}, nil)
}
