package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates the launch catalog: one row per joined launch plus a
// key/value table describing where the rows came from.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS launches (
			flight_number INTEGER PRIMARY KEY,
			launch_site   TEXT NOT NULL,
			payload_mass  REAL NOT NULL CHECK (payload_mass >= 0),
			outcome       INTEGER NOT NULL CHECK (outcome IN (0, 1)),
			position      INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS dataset_meta (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_launches_site         ON launches(launch_site)`,
		`CREATE INDEX IF NOT EXISTS idx_launches_payload      ON launches(payload_mass)`,
		`CREATE INDEX IF NOT EXISTS idx_launches_site_payload ON launches(launch_site, payload_mass)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
