package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Column names expected in the source tables.
const (
	ColFlightNumber = "FlightNumber"
	ColPayloadMass  = "PayloadMass"
	ColLaunchSite   = "LaunchSite"
	ColClass        = "Class"
)

// DefaultSitePrefix is the header prefix of the one-hot launch site columns.
const DefaultSitePrefix = "LaunchSite_"

// Options controls how the source tables are read and joined.
type Options struct {
	// SitePrefix names the one-hot site columns, e.g. "LaunchSite_KSC LC 39A".
	SitePrefix string
	// StrictJoin fails the load when a primary row has no outcome row.
	// Otherwise such rows are dropped and reported by Dataset.Unmatched.
	StrictJoin bool
}

// DefaultOptions returns inner-join options with the conventional prefix.
func DefaultOptions() Options {
	return Options{SitePrefix: DefaultSitePrefix}
}

// Load reads the primary launch table and the secondary outcome table and
// joins them on FlightNumber.
func Load(primary, secondary io.Reader, opts Options) (*Dataset, error) {
	ctx := context.Background()
	launches, err := readLaunches(ctx, primary, "primary", opts)
	if err != nil {
		return nil, err
	}
	outcomes, err := readOutcomes(ctx, secondary, "secondary")
	if err != nil {
		return nil, err
	}
	return join(launches, outcomes, opts)
}

// LoadFiles reads both tables from disk concurrently and joins them.
func LoadFiles(ctx context.Context, primaryPath, secondaryPath string, opts Options) (*Dataset, error) {
	var (
		launches []LaunchRecord
		outcomes map[int]Outcome
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := os.Open(primaryPath)
		if err != nil {
			return &LoadError{Source: primaryPath, Err: err}
		}
		defer f.Close()
		launches, err = readLaunches(gctx, f, primaryPath, opts)
		return err
	})
	g.Go(func() error {
		f, err := os.Open(secondaryPath)
		if err != nil {
			return &LoadError{Source: secondaryPath, Err: err}
		}
		defer f.Close()
		outcomes, err = readOutcomes(gctx, f, secondaryPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return join(launches, outcomes, opts)
}

// join performs the inner join of launches with outcomes, preserving the
// primary table's row order.
func join(launches []LaunchRecord, outcomes map[int]Outcome, opts Options) (*Dataset, error) {
	joined := make([]LaunchRecord, 0, len(launches))
	seen := make(map[int]struct{}, len(launches))
	var unmatched []int

	for _, rec := range launches {
		if _, dup := seen[rec.FlightNumber]; dup {
			return nil, &IntegrityError{FlightNumber: rec.FlightNumber, Reason: "duplicate flight number in launch table"}
		}
		seen[rec.FlightNumber] = struct{}{}

		outcome, ok := outcomes[rec.FlightNumber]
		if !ok {
			if opts.StrictJoin {
				return nil, &IntegrityError{FlightNumber: rec.FlightNumber, Reason: "no matching outcome row"}
			}
			unmatched = append(unmatched, rec.FlightNumber)
			continue
		}
		rec.Outcome = outcome
		joined = append(joined, rec)
	}

	ds, err := New(joined)
	if err != nil {
		return nil, err
	}
	ds.unmatched = unmatched
	return ds, nil
}

// siteColumn is a one-hot launch site column found in the primary header.
type siteColumn struct {
	name  string
	site  string
	index int
}

// header maps column names to their positions.
type header map[string]int

func readHeader(cr *csv.Reader, source string) (header, error) {
	names, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Source: source, Err: errors.New("missing header row")}
		}
		return nil, &LoadError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}
	h := make(header, len(names))
	for i, name := range names {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		h[name] = i
	}
	return h, nil
}

func (h header) require(source string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := h[name]
		if !ok {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("missing required column %q", name)}
		}
		idx[i] = pos
	}
	return idx, nil
}

// siteColumns returns the one-hot site columns ordered by header position.
func (h header) siteColumns(prefix string) []siteColumn {
	var cols []siteColumn
	for name, pos := range h {
		if prefix == "" || !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		cols = append(cols, siteColumn{name: name, site: strings.TrimPrefix(name, prefix), index: pos})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].index < cols[j].index })
	return cols
}

func readLaunches(ctx context.Context, r io.Reader, source string, opts Options) ([]LaunchRecord, error) {
	cr := csv.NewReader(r)
	h, err := readHeader(cr, source)
	if err != nil {
		return nil, err
	}

	idx, err := h.require(source, ColFlightNumber, ColPayloadMass)
	if err != nil {
		return nil, err
	}
	flightIdx, payloadIdx := idx[0], idx[1]

	siteIdx, categorical := h[ColLaunchSite]
	oneHot := h.siteColumns(opts.SitePrefix)
	if !categorical && len(oneHot) == 0 {
		return nil, &LoadError{
			Source: source,
			Err:    fmt.Errorf("no launch site columns: want %q or %q<site>", ColLaunchSite, opts.SitePrefix),
		}
	}

	var records []LaunchRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		flight, err := parseFlightNumber(row[flightIdx])
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		payload, err := parsePayload(row[payloadIdx])
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		var site string
		if categorical {
			site = strings.TrimSpace(row[siteIdx])
			if site == "" {
				return nil, &IntegrityError{FlightNumber: flight, Reason: "empty launch site"}
			}
		} else {
			site, err = resolveSite(row, oneHot, flight)
			if err != nil {
				var ie *IntegrityError
				if errors.As(err, &ie) {
					return nil, err
				}
				return nil, &LoadError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
			}
		}

		records = append(records, LaunchRecord{
			FlightNumber: flight,
			LaunchSite:   site,
			PayloadMass:  payload,
		})
	}
	return records, nil
}

// resolveSite collapses the one-hot site columns of a row into a single
// site name. Exactly one column must be set.
func resolveSite(row []string, cols []siteColumn, flight int) (string, error) {
	var found []string
	for _, c := range cols {
		set, err := parseBool(row[c.index])
		if err != nil {
			return "", fmt.Errorf("column %q: %w", c.name, err)
		}
		if set {
			found = append(found, c.site)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", &IntegrityError{FlightNumber: flight, Reason: "no launch site column set"}
	default:
		return "", &IntegrityError{FlightNumber: flight, Reason: fmt.Sprintf("multiple launch site columns set: %s", strings.Join(found, ", "))}
	}
}

func readOutcomes(ctx context.Context, r io.Reader, source string) (map[int]Outcome, error) {
	cr := csv.NewReader(r)
	h, err := readHeader(cr, source)
	if err != nil {
		return nil, err
	}
	idx, err := h.require(source, ColFlightNumber, ColClass)
	if err != nil {
		return nil, err
	}
	flightIdx, classIdx := idx[0], idx[1]

	outcomes := make(map[int]Outcome)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		flight, err := parseFlightNumber(row[flightIdx])
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		outcome, err := parseOutcome(row[classIdx])
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		if _, dup := outcomes[flight]; dup {
			return nil, &IntegrityError{FlightNumber: flight, Reason: "duplicate flight number in outcome table"}
		}
		outcomes[flight] = outcome
	}
	return outcomes, nil
}

// parseFlightNumber accepts integers and integral floats ("7", "7.0").
func parseFlightNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("invalid %s %q", ColFlightNumber, s)
	}
	return int(f), nil
}

func parsePayload(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("invalid %s %q", ColPayloadMass, s)
	}
	return f, nil
}

func parseOutcome(s string) (Outcome, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "0", "0.0":
		return Failure, nil
	case "1", "1.0":
		return Success, nil
	}
	return 0, fmt.Errorf("invalid %s %q", ColClass, s)
}

// parseBool accepts the boolean spellings pandas and spreadsheets emit.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0", "yes":
		return true, nil
	case "false", "0", "0.0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
