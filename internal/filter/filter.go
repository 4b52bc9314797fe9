// Package filter selects the launches matching a dashboard selector state.
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/runnerr0/launchdash/internal/dataset"
)

// AllSites is the site selector value that disables site filtering.
const AllSites = "ALL"

// PayloadRange is an inclusive payload-mass interval in kilograms.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether low <= x <= high.
func (r PayloadRange) Contains(x float64) bool {
	return x >= r.Low && x <= r.High
}

// Degenerate reports whether the range can match nothing (low > high).
func (r PayloadRange) Degenerate() bool {
	return !(r.Low <= r.High)
}

// SelectorState is the state of the two dashboard controls.
type SelectorState struct {
	Site  string       `json:"site"`
	Range PayloadRange `json:"payload_range"`
}

// AllSites reports whether the state selects every launch site.
func (s SelectorState) AllSites() bool {
	return s.Site == AllSites
}

func (s SelectorState) String() string {
	return fmt.Sprintf("site=%q payload=[%g, %g]", s.Site, s.Range.Low, s.Range.High)
}

// DefaultState selects all sites over the dataset's full payload bounds.
func DefaultState(ds *dataset.Dataset) SelectorState {
	b := ds.Bounds()
	return SelectorState{
		Site:  AllSites,
		Range: PayloadRange{Low: b.MinPayload, High: b.MaxPayload},
	}
}

// ParseState builds a SelectorState from raw control values. Empty values
// fall back to AllSites and the given bounds.
func ParseState(site, low, high string, bounds dataset.Bounds) (SelectorState, error) {
	state := SelectorState{
		Site:  strings.TrimSpace(site),
		Range: PayloadRange{Low: bounds.MinPayload, High: bounds.MaxPayload},
	}
	if state.Site == "" {
		state.Site = AllSites
	}

	var err error
	if state.Range.Low, err = parseBound("low", low, state.Range.Low); err != nil {
		return SelectorState{}, err
	}
	if state.Range.High, err = parseBound("high", high, state.Range.High); err != nil {
		return SelectorState{}, err
	}
	return state, nil
}

func parseBound(name, raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid %s payload bound %q", name, raw)
	}
	return v, nil
}

// Subset is the result of applying a SelectorState to a Dataset.
type Subset struct {
	State   SelectorState
	Records []dataset.LaunchRecord
}

// Len returns the number of matching records.
func (s Subset) Len() int { return len(s.Records) }

// Apply returns the records of ds whose payload lies within the selected
// range and, unless every site is selected, whose site equals the selection.
// A degenerate range or unknown site yields an empty subset. ds is only read.
func Apply(ds *dataset.Dataset, state SelectorState) Subset {
	out := Subset{State: state, Records: []dataset.LaunchRecord{}}
	if state.Range.Degenerate() {
		return out
	}
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if !state.Range.Contains(r.PayloadMass) {
			continue
		}
		if !state.AllSites() && r.LaunchSite != state.Site {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out
}
