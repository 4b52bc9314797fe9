package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
	"github.com/runnerr0/launchdash/internal/format"
	"github.com/runnerr0/launchdash/internal/logging"
	"github.com/runnerr0/launchdash/internal/server"
)

// Execute implements the go-flags Commander interface for QueryCommand.
func (c *QueryCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	closer, err := setupLogging(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	ds, err := loadDataset(context.Background(), cfg, logging.New("query"))
	if err != nil {
		return err
	}
	return c.executeWithDataset(ds, cfg.Data.SitePrefix)
}

// executeWithDataset runs one selection against ds (used by tests).
func (c *QueryCommand) executeWithDataset(ds *dataset.Dataset, sitePrefix string) error {
	state, err := parseSelection(c.Selection, ds)
	if err != nil {
		return err
	}

	if c.CSV {
		subset := filter.Apply(ds, state)
		return dataset.WriteCSV(os.Stdout, subset.Records, ds.Sites(), sitePrefix)
	}

	v := server.Evaluate(ds, state)
	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return c.printHuman(v)
}

func (c *QueryCommand) printHuman(v server.View) error {
	mode := format.ASCII
	if c.Markdown {
		mode = format.Markdown
	}

	fmt.Printf("Selection:     %s\n", v.State)
	fmt.Printf("Rows:          %s\n", format.Count(v.Rows))
	for _, w := range v.Warnings {
		fmt.Printf("Warning:       %s\n", w)
	}

	fmt.Println()
	fmt.Println(v.Proportion.Title)
	pt := format.NewTable(mode)
	pt.Header("Outcome", "Count", "Share")
	for _, s := range v.Proportion.Slices {
		pt.Row(s.Label, format.Count(s.Count), format.Percent(s.Share))
	}
	pt.Footer("Total", format.Count(v.Proportion.Total), "")
	pt.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
	)
	fmt.Println(pt.String())

	fmt.Println()
	fmt.Println(v.Scatter.Title)
	st := format.NewTable(mode)
	st.Header("Flight", "Payload", "Outcome")
	for _, p := range v.Scatter.Points {
		st.Row(p.FlightNumber, format.Kilograms(p.X), dataset.Outcome(p.Y).String())
	}
	if !v.Scatter.Empty {
		st.Footer("Mean", format.Kilograms(v.Scatter.MeanPayload), "")
	}
	st.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	fmt.Println(st.String())
	return nil
}
