package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/launchdash/internal/dataset"
)

// ErrMetaNotFound is returned by GetMeta for an unknown key.
var ErrMetaNotFound = errors.New("meta key not found")

// Catalog defines the launch catalog operations.
type Catalog interface {
	ReplaceLaunches(ctx context.Context, records []dataset.LaunchRecord) error
	CountLaunches(ctx context.Context) (int64, error)
	GetStats(ctx context.Context) (*Stats, error)
	SchemaVersion(ctx context.Context) (int, error)
	SetMeta(ctx context.Context, key, value string) error
	GetMeta(ctx context.Context, key string) (string, error)
	Close() error
}

// SQLiteStore implements Catalog backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	countLaunches *sql.Stmt
	setMeta       *sql.Stmt
	getMeta       *sql.Stmt
}

var _ Catalog = (*SQLiteStore)(nil)

// Open opens the SQLite database at dsn and applies all migrations. An
// in-memory DSN is pinned to a single connection, since every connection
// to ":memory:" sees its own empty database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if IsMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
	}
	if err := NewMigrationRunner(db).Run(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return db, nil
}

// IsMemoryDSN reports whether dsn names an in-memory SQLite database.
func IsMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.countLaunches, err = s.db.Prepare(`SELECT COUNT(*) FROM launches`)
	if err != nil {
		return err
	}

	s.setMeta, err = s.db.Prepare(`
		INSERT INTO dataset_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.getMeta, err = s.db.Prepare(`SELECT value FROM dataset_meta WHERE key = ?`)
	if err != nil {
		return err
	}

	return nil
}

// ReplaceLaunches swaps the catalog contents for records in a single
// transaction. Load order is preserved.
func (s *SQLiteStore) ReplaceLaunches(ctx context.Context, records []dataset.LaunchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM launches"); err != nil {
		return fmt.Errorf("clear launches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO launches (flight_number, launch_site, payload_mass, outcome, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.FlightNumber, r.LaunchSite, r.PayloadMass, int(r.Outcome), i); err != nil {
			return fmt.Errorf("insert launch %d: %w", r.FlightNumber, err)
		}
	}

	return tx.Commit()
}

// CountLaunches returns the number of catalog rows.
func (s *SQLiteStore) CountLaunches(ctx context.Context) (int64, error) {
	var n int64
	if err := s.countLaunches.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("count launches: %w", err)
	}
	return n, nil
}

// GetStats returns overall and per-site aggregates. Sites are ordered by
// name.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Sites: []SiteStats{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(outcome), 0),
		       COALESCE(MIN(payload_mass), 0), COALESCE(MAX(payload_mass), 0)
		FROM launches
	`).Scan(&stats.TotalLaunches, &stats.Successes, &stats.MinPayload, &stats.MaxPayload)
	if err != nil {
		return nil, fmt.Errorf("catalog totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT launch_site, launches, successes,
		       min_payload, max_payload, mean_payload
		FROM site_summary
		ORDER BY launch_site
	`)
	if err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ss SiteStats
		if err := rows.Scan(&ss.Site, &ss.Launches, &ss.Successes,
			&ss.MinPayload, &ss.MaxPayload, &ss.MeanPayload); err != nil {
			return nil, err
		}
		stats.Sites = append(stats.Sites, ss)
	}

	return stats, rows.Err()
}

// SchemaVersion reports the highest migration applied to the catalog.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	return NewMigrationRunner(s.db).SchemaVersion(ctx)
}

// SetMeta records a dataset_meta value, replacing any previous one.
func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	if _, err := s.setMeta.ExecContext(ctx, key, value); err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta returns a dataset_meta value, or ErrMetaNotFound.
func (s *SQLiteStore) GetMeta(ctx context.Context, key string) (string, error) {
	var v string
	err := s.getMeta.QueryRowContext(ctx, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrMetaNotFound, key)
		}
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return v, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.countLaunches, s.setMeta, s.getMeta}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
