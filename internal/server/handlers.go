package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"path"
	"strings"

	"github.com/runnerr0/launchdash/internal/chart"
	"github.com/runnerr0/launchdash/internal/config"
	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
	"github.com/runnerr0/launchdash/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// stateFromQuery reads site, low and high, defaulting to all sites over the
// dataset bounds.
func (s *Server) stateFromQuery(r *http.Request) (filter.SelectorState, error) {
	q := r.URL.Query()
	return filter.ParseState(q.Get("site"), q.Get("low"), q.Get("high"), s.ds.Bounds())
}

type indexData struct {
	Title       string
	Options     []SiteOption
	SliderMin   float64
	SliderMax   float64
	SliderStep  float64
	Marks       []float64
	Low         float64
	High        float64
	ChartWidth  int
	ChartHeight int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b := s.ds.Bounds()
	lo, hi := sliderDomain(s.dash, b)
	data := indexData{
		Title:       s.dash.Title,
		Options:     SiteOptions(s.ds),
		SliderMin:   lo,
		SliderMax:   hi,
		SliderStep:  s.dash.SliderStep,
		Marks:       marks(lo, hi, s.dash.MarkInterval),
		Low:         b.MinPayload,
		High:        b.MaxPayload,
		ChartWidth:  s.dash.ChartWidth,
		ChartHeight: s.dash.ChartHeight,
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("render dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// sliderDomain widens the configured slider range to whole steps covering
// the dataset bounds, so the initial handles never clamp the selection.
func sliderDomain(dash config.DashboardConfig, b dataset.Bounds) (float64, float64) {
	lo, hi := dash.SliderMin, dash.SliderMax
	step := dash.SliderStep
	if step <= 0 {
		return min(lo, b.MinPayload), max(hi, b.MaxPayload)
	}
	if b.MinPayload < lo {
		lo -= math.Ceil((lo-b.MinPayload)/step) * step
	}
	if b.MaxPayload > hi {
		hi = lo + math.Ceil((b.MaxPayload-lo)/step)*step
	}
	return lo, hi
}

// marks returns slider tick values from lo to hi every interval.
func marks(lo, hi, interval float64) []float64 {
	if interval <= 0 || hi < lo {
		return nil
	}
	var out []float64
	for v := lo; v <= hi; v += interval {
		out = append(out, v)
	}
	return out
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	state, err := s.stateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v := Evaluate(s.ds, state)
	for _, warning := range v.Warnings {
		s.log.Debug("chart warning", "state", state.String(), "warning", warning)
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ext := path.Ext(name)
	kind := strings.TrimSuffix(name, ext)

	format, err := chart.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if kind != "proportion" && kind != "scatter" {
		writeError(w, http.StatusNotFound, "unknown chart "+name)
		return
	}

	state, err := s.stateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	subset := filter.Apply(s.ds, state)
	opts := chart.RenderOptions{Width: s.dash.ChartWidth, Height: s.dash.ChartHeight, Format: format}

	var buf bytes.Buffer
	switch kind {
	case "proportion":
		spec, _ := chart.ToProportionSpec(subset)
		err = chart.RenderProportion(&buf, spec, opts)
	case "scatter":
		spec, _ := chart.ToScatterSpec(subset)
		err = chart.RenderScatter(&buf, spec, opts)
	}
	if err != nil {
		s.log.Error("render chart", "chart", kind, "state", state.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "chart rendering failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SiteOptions(s.ds))
}

type statsResponse struct {
	Rows      int            `json:"rows"`
	Unmatched []int          `json:"unmatched"`
	Min       float64        `json:"min_payload"`
	Max       float64        `json:"max_payload"`
	Catalog   *storage.Stats `json:"catalog"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "launch catalog unavailable")
		return
	}
	stats, err := s.catalog.GetStats(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.log.Error("catalog stats", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog query failed")
		return
	}
	b := s.ds.Bounds()
	writeJSON(w, http.StatusOK, statsResponse{
		Rows:      s.ds.Len(),
		Unmatched: s.ds.Unmatched(),
		Min:       b.MinPayload,
		Max:       b.MaxPayload,
		Catalog:   stats,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": s.ds.Len()})
}
