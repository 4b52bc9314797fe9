package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/runnerr0/launchdash/internal/config"
	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
	"github.com/runnerr0/launchdash/internal/logging"
	"github.com/runnerr0/launchdash/internal/storage"
)

// loadConfig resolves the config file and environment, then applies the
// global data path overrides.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	path := ""
	if g != nil {
		path = g.Config
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}
	if g != nil {
		if g.Primary != "" {
			cfg.Data.Primary = g.Primary
		}
		if g.Secondary != "" {
			cfg.Data.Secondary = g.Secondary
		}
	}
	return cfg, nil
}

// setupLogging configures slog from cfg; --verbose forces debug.
func setupLogging(cfg *config.Config, g *GlobalFlags) (io.Closer, error) {
	verbose := g != nil && g.Verbose
	closer, err := logging.Setup(cfg.Logging, verbose)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return closer, nil
}

// loadDataset reads and joins both source tables. Rows dropped by the join
// are logged, not fatal, unless data.strict_join is set.
func loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Dataset, error) {
	start := time.Now()
	opts := dataset.Options{SitePrefix: cfg.Data.SitePrefix, StrictJoin: cfg.Data.StrictJoin}
	ds, err := dataset.LoadFiles(ctx, cfg.Data.Primary, cfg.Data.Secondary, opts)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if n := len(ds.Unmatched()); n > 0 {
		logger.Warn("launches without outcome dropped", "count", n, "flights", ds.Unmatched())
	}
	b := ds.Bounds()
	logger.Info("dataset loaded",
		"rows", ds.Len(),
		"sites", len(ds.Sites()),
		"min_payload", b.MinPayload,
		"max_payload", b.MaxPayload,
		"took", time.Since(start),
	)
	return ds, nil
}

// openCatalog opens the configured SQLite catalog and fills it from ds.
// The caller closes both the store and the database.
func openCatalog(ctx context.Context, cfg *config.Config, ds *dataset.Dataset) (*storage.SQLiteStore, *sql.DB, error) {
	db, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	meta := map[string]string{
		storage.MetaPrimarySource:   cfg.Data.Primary,
		storage.MetaSecondarySource: cfg.Data.Secondary,
		storage.MetaUnmatched:       strconv.Itoa(len(ds.Unmatched())),
		storage.MetaLoadedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	err = store.ReplaceLaunches(ctx, ds.Records())
	for k, v := range meta {
		if err != nil {
			break
		}
		err = store.SetMeta(ctx, k, v)
	}
	if err == nil {
		var n int64
		if n, err = store.CountLaunches(ctx); err == nil && n != int64(ds.Len()) {
			err = fmt.Errorf("catalog holds %d launches, dataset has %d", n, ds.Len())
		}
	}
	if err != nil {
		store.Close()
		db.Close()
		return nil, nil, fmt.Errorf("populate catalog: %w", err)
	}

	return store, db, nil
}

// parseSelection turns flag values into a selector state over ds.
func parseSelection(sel Selection, ds *dataset.Dataset) (filter.SelectorState, error) {
	state, err := filter.ParseState(sel.Site, sel.Low, sel.High, ds.Bounds())
	if err != nil {
		return filter.SelectorState{}, err
	}
	if !state.AllSites() && !ds.HasSite(state.Site) {
		slog.Warn("unknown launch site, selection will be empty", "site", state.Site, "known", ds.Sites())
	}
	return state, nil
}
