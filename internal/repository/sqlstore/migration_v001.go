package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrateV001 creates the event log and the counter table with the lookup
// indexes used by the readers.
func migrateV001(ctx context.Context, tx *sqlx.Tx, driver string) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
			id             %s,
			app_id         TEXT NOT NULL,
			event_type     TEXT NOT NULL,
			event_category TEXT NOT NULL,
			qualifier      TEXT,
			value          BIGINT NOT NULL DEFAULT 1,
			timestamp      BIGINT NOT NULL,
			country        TEXT
		)`, idColumn),

		`CREATE TABLE IF NOT EXISTS stats (
			app_id       TEXT NOT NULL,
			metric       TEXT NOT NULL,
			category     TEXT,
			value        BIGINT NOT NULL DEFAULT 0,
			last_updated BIGINT NOT NULL,
			PRIMARY KEY (app_id, metric)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_lookup ON events (app_id, event_type, qualifier)`,
		`CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_country ON events (app_id, country, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_category ON stats (app_id, category)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
