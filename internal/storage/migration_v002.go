package storage

import (
	"context"
	"database/sql"
)

// migrateV002 adds the per-site aggregate view read by GetStats.
func migrateV002(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE VIEW IF NOT EXISTS site_summary AS
		SELECT launch_site,
		       COUNT(*)          AS launches,
		       SUM(outcome)      AS successes,
		       MIN(payload_mass) AS min_payload,
		       MAX(payload_mass) AS max_payload,
		       AVG(payload_mass) AS mean_payload
		FROM launches
		GROUP BY launch_site
	`)
	return err
}
