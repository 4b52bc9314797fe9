package dataset

import (
	"fmt"
	"sort"
)

// Outcome is the binary launch result label.
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case Failure:
		return "Failure"
	case Success:
		return "Success"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// LaunchRecord is one row of the joined launch table.
type LaunchRecord struct {
	FlightNumber int     `json:"flight_number"`
	LaunchSite   string  `json:"launch_site"`
	PayloadMass  float64 `json:"payload_mass"`
	Outcome      Outcome `json:"outcome"`
}

// Bounds holds the payload-mass extremes of a dataset.
type Bounds struct {
	MinPayload float64 `json:"min_payload"`
	MaxPayload float64 `json:"max_payload"`
}

// Dataset is the joined launch table. It is immutable once constructed and
// safe to share between goroutines without locking.
type Dataset struct {
	records   []LaunchRecord
	sites     []string
	bounds    Bounds
	unmatched []int
}

// New builds a Dataset from records. The slice is copied. Flight numbers
// must be unique and the payload bounds must be computable.
func New(records []LaunchRecord) (*Dataset, error) {
	seen := make(map[int]struct{}, len(records))
	siteSet := make(map[string]struct{})
	for _, r := range records {
		if _, dup := seen[r.FlightNumber]; dup {
			return nil, &IntegrityError{FlightNumber: r.FlightNumber, Reason: "duplicate flight number"}
		}
		seen[r.FlightNumber] = struct{}{}
		siteSet[r.LaunchSite] = struct{}{}
	}

	bounds, err := ComputeBounds(records)
	if err != nil {
		return nil, err
	}

	sites := make([]string, 0, len(siteSet))
	for s := range siteSet {
		sites = append(sites, s)
	}
	sort.Strings(sites)

	own := make([]LaunchRecord, len(records))
	copy(own, records)

	return &Dataset{records: own, sites: sites, bounds: bounds}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record in load order.
func (d *Dataset) At(i int) LaunchRecord { return d.records[i] }

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []LaunchRecord {
	out := make([]LaunchRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Sites returns the distinct launch sites, sorted.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// HasSite reports whether any record was launched from site.
func (d *Dataset) HasSite(site string) bool {
	i := sort.SearchStrings(d.sites, site)
	return i < len(d.sites) && d.sites[i] == site
}

// Bounds returns the payload bounds computed at construction.
func (d *Dataset) Bounds() Bounds { return d.bounds }

// Unmatched returns the flight numbers from the primary table that had no
// outcome row and were dropped by the join.
func (d *Dataset) Unmatched() []int {
	out := make([]int, len(d.unmatched))
	copy(out, d.unmatched)
	return out
}

// OneHot reconstructs the one-hot site view of records: one column per
// entry of sites, one row per record, in order.
func OneHot(records []LaunchRecord, sites []string) [][]bool {
	rows := make([][]bool, len(records))
	for i, r := range records {
		row := make([]bool, len(sites))
		for j, s := range sites {
			row[j] = r.LaunchSite == s
		}
		rows[i] = row
	}
	return rows
}
