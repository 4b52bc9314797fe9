// Package server binds the dashboard controls to the filter and chart
// pipeline over HTTP.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/runnerr0/launchdash/internal/chart"
	"github.com/runnerr0/launchdash/internal/config"
	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
	"github.com/runnerr0/launchdash/internal/storage"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// AllSitesLabel is the dropdown label of the all-sites option.
const AllSitesLabel = "All Sites"

// Server serves the dashboard page and its chart endpoints. It holds the
// dataset read-only; selector state travels with each request.
type Server struct {
	ds      *dataset.Dataset
	catalog storage.Catalog
	dash    config.DashboardConfig
	log     *slog.Logger
	page    *template.Template
}

// New creates a Server over a loaded dataset. catalog may be nil, in which
// case /api/stats reports 503.
func New(ds *dataset.Dataset, catalog storage.Catalog, dash config.DashboardConfig, logger *slog.Logger) (*Server, error) {
	if ds == nil {
		return nil, errors.New("server requires a dataset")
	}
	if logger == nil {
		logger = slog.Default()
	}
	page, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Server{ds: ds, catalog: catalog, dash: dash, log: logger, page: page}, nil
}

// Handler returns the routed and logged HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/charts", s.handleCharts)
	mux.HandleFunc("GET /api/sites", s.handleSites)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /charts/{name}", s.handleChartImage)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logRequests(s.log, mux)
}

// SiteOption is one entry of the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SiteOptions returns the dropdown entries: all sites first, then each
// dataset site in sorted order.
func SiteOptions(ds *dataset.Dataset) []SiteOption {
	opts := []SiteOption{{Label: AllSitesLabel, Value: filter.AllSites}}
	for _, site := range ds.Sites() {
		opts = append(opts, SiteOption{Label: site, Value: site})
	}
	return opts
}

// View is the complete result of one pipeline evaluation.
type View struct {
	State      filter.SelectorState `json:"state"`
	Rows       int                  `json:"rows"`
	Proportion chart.ProportionSpec `json:"proportion"`
	Scatter    chart.ScatterSpec    `json:"scatter"`
	Warnings   []string             `json:"warnings"`
}

// Evaluate runs filter then both mappers for state. Empty results are
// reported as warnings, never as errors.
func Evaluate(ds *dataset.Dataset, state filter.SelectorState) View {
	subset := filter.Apply(ds, state)
	v := View{State: state, Rows: subset.Len(), Warnings: []string{}}

	if state.Range.Degenerate() {
		v.Warnings = append(v.Warnings, fmt.Sprintf("payload range [%g, %g] is empty", state.Range.Low, state.Range.High))
	}
	if !state.AllSites() && !ds.HasSite(state.Site) {
		v.Warnings = append(v.Warnings, fmt.Sprintf("unknown launch site %q", state.Site))
	}

	var err error
	v.Proportion, err = chart.ToProportionSpec(subset)
	if errors.Is(err, chart.ErrEmptyInput) {
		v.Warnings = append(v.Warnings, err.Error())
	}
	// Both mappers see the same subset, so the scatter warning would repeat.
	v.Scatter, _ = chart.ToScatterSpec(subset)
	return v
}
