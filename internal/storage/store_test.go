package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/launchdash/internal/dataset"
)

// openTestStore creates a migrated in-memory Catalog for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// catalogRows reads the launches table back in load order.
func catalogRows(t *testing.T, store *SQLiteStore) []dataset.LaunchRecord {
	t.Helper()
	rows, err := store.db.Query(`
		SELECT flight_number, launch_site, payload_mass, outcome
		FROM launches ORDER BY position
	`)
	require.NoError(t, err)
	defer rows.Close()

	var out []dataset.LaunchRecord
	for rows.Next() {
		var r dataset.LaunchRecord
		require.NoError(t, rows.Scan(&r.FlightNumber, &r.LaunchSite, &r.PayloadMass, &r.Outcome))
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

var testLaunches = []dataset.LaunchRecord{
	{FlightNumber: 4, LaunchSite: "VAFB SLC 4E", PayloadMass: 500, Outcome: dataset.Failure},
	{FlightNumber: 1, LaunchSite: "CCAFS SLC 40", PayloadMass: 0, Outcome: dataset.Failure},
	{FlightNumber: 2, LaunchSite: "CCAFS SLC 40", PayloadMass: 525, Outcome: dataset.Success},
	{FlightNumber: 3, LaunchSite: "KSC LC 39A", PayloadMass: 2000, Outcome: dataset.Success},
	{FlightNumber: 5, LaunchSite: "KSC LC 39A", PayloadMass: 5300, Outcome: dataset.Success},
}

func TestReplaceLaunches_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceLaunches(ctx, testLaunches))

	assert.Equal(t, testLaunches, catalogRows(t, store), "load order must survive the catalog")

	n, err := store.CountLaunches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestReplaceLaunches_Replaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceLaunches(ctx, testLaunches))
	require.NoError(t, store.ReplaceLaunches(ctx, testLaunches[:2]))

	n, err := store.CountLaunches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReplaceLaunches_RollsBackOnDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.ReplaceLaunches(ctx, testLaunches))

	dup := append([]dataset.LaunchRecord{}, testLaunches[0], testLaunches[0])
	err := store.ReplaceLaunches(ctx, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert launch 4")

	n, err := store.CountLaunches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n, "failed replace must leave previous rows intact")
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.ReplaceLaunches(ctx, testLaunches))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalLaunches)
	assert.Equal(t, int64(3), stats.Successes)
	assert.Equal(t, 0.0, stats.MinPayload)
	assert.Equal(t, 5300.0, stats.MaxPayload)

	require.Len(t, stats.Sites, 3)
	assert.Equal(t, SiteStats{
		Site: "CCAFS SLC 40", Launches: 2, Successes: 1,
		MinPayload: 0, MaxPayload: 525, MeanPayload: 262.5,
	}, stats.Sites[0])
	assert.Equal(t, "KSC LC 39A", stats.Sites[1].Site)
	assert.Equal(t, 1.0, stats.Sites[1].SuccessRate())
	assert.Equal(t, int64(1), stats.Sites[2].Failures())
	assert.Equal(t, 0.0, stats.Sites[2].SuccessRate())
}

func TestGetStats_EmptyCatalog(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLaunches)
	assert.NotNil(t, stats.Sites)
	assert.Empty(t, stats.Sites)
	assert.Equal(t, 0.0, SiteStats{}.SuccessRate())
}

func TestMeta(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.GetMeta(ctx, MetaPrimarySource)
	assert.True(t, errors.Is(err, ErrMetaNotFound))

	require.NoError(t, store.SetMeta(ctx, MetaPrimarySource, "a.csv"))
	require.NoError(t, store.SetMeta(ctx, MetaPrimarySource, "b.csv"))

	v, err := store.GetMeta(ctx, MetaPrimarySource)
	require.NoError(t, err)
	assert.Equal(t, "b.csv", v)
}

func TestSchemaVersion(t *testing.T) {
	store := openTestStore(t)
	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(catalogMigrations), v)
}

func TestOpen_FileDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ReplaceLaunches(context.Background(), testLaunches))
	n, err := store.CountLaunches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, IsMemoryDSN(":memory:"))
	assert.True(t, IsMemoryDSN(":memory:?_foreign_keys=on"))
	assert.True(t, IsMemoryDSN("file:catalog?mode=memory&cache=shared"))
	assert.False(t, IsMemoryDSN("/var/lib/launchdash/catalog.db"))
}
