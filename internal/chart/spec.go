// Package chart maps filtered launch subsets to renderer-independent chart
// specifications and renders them with go-chart.
package chart

import (
	"errors"
	"fmt"

	"github.com/aclements/go-moremath/stats"

	"github.com/runnerr0/launchdash/internal/dataset"
	"github.com/runnerr0/launchdash/internal/filter"
)

// ErrEmptyInput is a non-fatal warning: the subset had no rows, and the
// returned spec describes an empty chart.
var ErrEmptyInput = errors.New("empty input: no launches match the selection")

// Slice is one category of the proportion chart.
type Slice struct {
	Label   string          `json:"label"`
	Outcome dataset.Outcome `json:"outcome"`
	Count   int             `json:"count"`
	Share   float64         `json:"share"`
}

// ProportionSpec describes the success-vs-failure proportion chart.
type ProportionSpec struct {
	Title  string  `json:"title"`
	Site   string  `json:"site"`
	Total  int     `json:"total"`
	Empty  bool    `json:"empty"`
	Slices []Slice `json:"slices"`
}

// Point is one launch in the payload scatter chart. FlightNumber is the
// color discriminator.
type Point struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	FlightNumber int     `json:"flight_number"`
}

// ScatterSpec describes the payload-vs-outcome scatter chart.
type ScatterSpec struct {
	Title       string  `json:"title"`
	Site        string  `json:"site"`
	Empty       bool    `json:"empty"`
	MeanPayload float64 `json:"mean_payload"`
	Points      []Point `json:"points"`
}

// ProportionTitle returns the proportion chart title for a site selection.
func ProportionTitle(site string) string {
	if site == filter.AllSites {
		return "Total Success vs Failure Launches"
	}
	return fmt.Sprintf("Success vs Failure for site %s", site)
}

// ScatterTitle returns the scatter chart title for a site selection.
func ScatterTitle(site string) string {
	if site == filter.AllSites {
		return "Correlation between Payload and Success for all Sites"
	}
	return fmt.Sprintf("Correlation between Payload and Success for site %s", site)
}

// ToProportionSpec groups the subset by outcome and counts each group.
// Only outcomes that occur are listed, failures first. An empty subset
// yields an empty spec together with ErrEmptyInput.
func ToProportionSpec(subset filter.Subset) (ProportionSpec, error) {
	spec := ProportionSpec{
		Title:  ProportionTitle(subset.State.Site),
		Site:   subset.State.Site,
		Total:  subset.Len(),
		Slices: []Slice{},
	}
	if subset.Len() == 0 {
		spec.Empty = true
		return spec, ErrEmptyInput
	}

	counts := map[dataset.Outcome]int{}
	for _, r := range subset.Records {
		counts[r.Outcome]++
	}
	for _, o := range []dataset.Outcome{dataset.Failure, dataset.Success} {
		n := counts[o]
		if n == 0 {
			continue
		}
		spec.Slices = append(spec.Slices, Slice{
			Label:   o.String(),
			Outcome: o,
			Count:   n,
			Share:   float64(n) / float64(spec.Total),
		})
	}
	return spec, nil
}

// ToScatterSpec projects each launch to (payload, outcome), keeping load
// order. An empty subset yields an empty spec together with ErrEmptyInput.
func ToScatterSpec(subset filter.Subset) (ScatterSpec, error) {
	spec := ScatterSpec{
		Title:  ScatterTitle(subset.State.Site),
		Site:   subset.State.Site,
		Points: make([]Point, 0, subset.Len()),
	}
	if subset.Len() == 0 {
		spec.Empty = true
		return spec, ErrEmptyInput
	}

	xs := make([]float64, subset.Len())
	for i, r := range subset.Records {
		xs[i] = r.PayloadMass
		spec.Points = append(spec.Points, Point{
			X:            r.PayloadMass,
			Y:            float64(r.Outcome),
			FlightNumber: r.FlightNumber,
		})
	}
	spec.MeanPayload = stats.Mean(xs)
	return spec, nil
}
