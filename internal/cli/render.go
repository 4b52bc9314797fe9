package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runnerr0/launchdash/internal/chart"
	"github.com/runnerr0/launchdash/internal/config"
	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
	"github.com/runnerr0/launchdash/internal/logging"
)

// Execute implements the go-flags Commander interface for RenderCommand.
func (c *RenderCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	closer, err := setupLogging(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	ds, err := loadDataset(context.Background(), cfg, logging.New("render"))
	if err != nil {
		return err
	}
	return c.executeWithDataset(ds, cfg.Dashboard)
}

// renderFormat picks --format, else the --out extension, else SVG.
func (c *RenderCommand) renderFormat() (chart.Format, error) {
	if c.Format != "" {
		return chart.ParseFormat(c.Format)
	}
	if ext := filepath.Ext(c.Out); c.Out != "-" && ext != "" {
		return chart.ParseFormat(ext)
	}
	return chart.FormatSVG, nil
}

// executeWithDataset renders one chart for ds (used by tests).
func (c *RenderCommand) executeWithDataset(ds *dataset.Dataset, dash config.DashboardConfig) error {
	state, err := parseSelection(c.Selection, ds)
	if err != nil {
		return err
	}
	f, err := c.renderFormat()
	if err != nil {
		return err
	}

	opts := chart.RenderOptions{Width: dash.ChartWidth, Height: dash.ChartHeight, Format: f}
	if c.Width > 0 {
		opts.Width = c.Width
	}
	if c.Height > 0 {
		opts.Height = c.Height
	}

	subset := filter.Apply(ds, state)
	var buf bytes.Buffer
	switch c.Chart {
	case "scatter":
		spec, _ := chart.ToScatterSpec(subset)
		err = chart.RenderScatter(&buf, spec, opts)
	default:
		spec, _ := chart.ToProportionSpec(subset)
		err = chart.RenderProportion(&buf, spec, opts)
	}
	if err != nil {
		return err
	}

	if c.Out == "" || c.Out == "-" {
		_, err = buf.WriteTo(os.Stdout)
		return err
	}
	if err := os.WriteFile(c.Out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if c.globals == nil || !c.globals.JSON {
		fmt.Printf("Wrote %s (%d rows, %s)\n", c.Out, subset.Len(), state)
	}
	return nil
}
