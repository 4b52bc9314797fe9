package dataset

import "github.com/aclements/go-moremath/stats"

// ComputeBounds returns the minimum and maximum payload mass across records.
// It fails with ErrEmptyDataset when records is empty.
func ComputeBounds(records []LaunchRecord) (Bounds, error) {
	if len(records) == 0 {
		return Bounds{}, ErrEmptyDataset
	}
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.PayloadMass
	}
	lo, hi := stats.Bounds(xs)
	return Bounds{MinPayload: lo, MaxPayload: hi}, nil
}
