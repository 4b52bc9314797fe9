package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/format"
	"github.com/runnerr0/launchdash/internal/logging"
	"github.com/runnerr0/launchdash/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version       string              `json:"version"`
	SchemaVersion int                 `json:"schema_version"`
	Primary       string              `json:"primary_source"`
	Secondary     string              `json:"secondary_source"`
	TotalLaunches int64               `json:"total_launches"`
	Successes     int64               `json:"successes"`
	Unmatched     []int               `json:"unmatched_flights"`
	MinPayload    float64             `json:"min_payload"`
	MaxPayload    float64             `json:"max_payload"`
	Sites         []storage.SiteStats `json:"sites"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	closer, err := setupLogging(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	ds, err := loadDataset(ctx, cfg, logging.New("status"))
	if err != nil {
		return err
	}

	store, db, err := openCatalog(ctx, cfg, ds)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(ctx, ds, store)
}

// executeWithStore prints the summary for a loaded dataset and a populated
// catalog (used by tests).
func (c *StatusCommand) executeWithStore(ctx context.Context, ds *dataset.Dataset, store storage.Catalog) error {
	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	schema, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	primary, _ := store.GetMeta(ctx, storage.MetaPrimarySource)
	secondary, _ := store.GetMeta(ctx, storage.MetaSecondarySource)

	out := statusJSON{
		Version:       c.version,
		SchemaVersion: schema,
		Primary:       primary,
		Secondary:     secondary,
		TotalLaunches: stats.TotalLaunches,
		Successes:     stats.Successes,
		Unmatched:     ds.Unmatched(),
		MinPayload:    stats.MinPayload,
		MaxPayload:    stats.MaxPayload,
		Sites:         stats.Sites,
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return c.printStatusHuman(out)
}

func (c *StatusCommand) printStatusHuman(s statusJSON) error {
	fmt.Println("Launch Dataset Status")
	fmt.Println("=====================")
	fmt.Printf("Version:       %s\n", s.Version)
	fmt.Printf("Schema:        v%d\n", s.SchemaVersion)
	if s.Primary != "" {
		fmt.Printf("Launches:      %s\n", s.Primary)
		fmt.Printf("Outcomes:      %s\n", s.Secondary)
	}
	fmt.Printf("Rows:          %s\n", format.Count(s.TotalLaunches))
	if s.TotalLaunches > 0 {
		rate := float64(s.Successes) / float64(s.TotalLaunches)
		fmt.Printf("Successes:     %s (%s)\n", format.Count(s.Successes), format.Percent(rate))
	}
	if len(s.Unmatched) > 0 {
		fmt.Printf("Dropped:       %s (no outcome)\n", format.Count(len(s.Unmatched)))
	}
	fmt.Printf("Payload:       %s .. %s\n", format.Kilograms(s.MinPayload), format.Kilograms(s.MaxPayload))

	if len(s.Sites) == 0 {
		return nil
	}

	fmt.Println()
	tb := format.NewTable(format.ASCII)
	tb.Header("Site", "Launches", "Success", "Failure", "Success Rate", "Mean Payload")
	for _, site := range s.Sites {
		tb.Row(
			site.Site,
			format.Count(site.Launches),
			format.Count(site.Successes),
			format.Count(site.Failures()),
			format.Percent(site.SuccessRate()),
			format.Kilograms(site.MeanPayload),
		)
	}
	tb.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
	)
	fmt.Println(tb.String())
	return nil
}
