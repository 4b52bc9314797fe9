package storage

// SiteStats aggregates the catalog rows of one launch site.
type SiteStats struct {
	Site        string  `json:"site"`
	Launches    int64   `json:"launches"`
	Successes   int64   `json:"successes"`
	MinPayload  float64 `json:"min_payload"`
	MaxPayload  float64 `json:"max_payload"`
	MeanPayload float64 `json:"mean_payload"`
}

// Failures returns the number of failed launches.
func (s SiteStats) Failures() int64 { return s.Launches - s.Successes }

// SuccessRate returns the fraction of successful launches, or 0 when the
// site has none.
func (s SiteStats) SuccessRate() float64 {
	if s.Launches == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Launches)
}

// Stats holds aggregate statistics about the launch catalog.
type Stats struct {
	TotalLaunches int64       `json:"total_launches"`
	Successes     int64       `json:"successes"`
	MinPayload    float64     `json:"min_payload"`
	MaxPayload    float64     `json:"max_payload"`
	Sites         []SiteStats `json:"sites"`
}

// Well-known dataset_meta keys.
const (
	MetaPrimarySource   = "primary_source"
	MetaSecondarySource = "secondary_source"
	MetaUnmatched       = "unmatched_rows"
	MetaLoadedAt        = "loaded_at"
)
