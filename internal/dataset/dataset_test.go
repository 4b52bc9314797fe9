package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []LaunchRecord {
	return []LaunchRecord{
		{FlightNumber: 1, LaunchSite: "CCAFS SLC 40", PayloadMass: 0, Outcome: Failure},
		{FlightNumber: 2, LaunchSite: "KSC LC 39A", PayloadMass: 2500, Outcome: Success},
		{FlightNumber: 3, LaunchSite: "VAFB SLC 4E", PayloadMass: 9600, Outcome: Success},
	}
}

func TestComputeBounds(t *testing.T) {
	b, err := ComputeBounds(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.MinPayload)
	assert.Equal(t, 9600.0, b.MaxPayload)
}

func TestComputeBounds_SingleRow(t *testing.T) {
	b, err := ComputeBounds(sampleRecords()[1:2])
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinPayload: 2500, MaxPayload: 2500}, b)
}

func TestComputeBounds_Empty(t *testing.T) {
	_, err := ComputeBounds(nil)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestNew_RejectsDuplicates(t *testing.T) {
	recs := append(sampleRecords(), LaunchRecord{FlightNumber: 2, LaunchSite: "KSC LC 39A"})
	_, err := New(recs)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
}

func TestNew_EmptyFails(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestDataset_IsImmutable(t *testing.T) {
	recs := sampleRecords()
	ds, err := New(recs)
	require.NoError(t, err)

	// Mutating the input slice does not leak into the dataset.
	recs[0].PayloadMass = 123456
	assert.Equal(t, 0.0, ds.At(0).PayloadMass)

	// Nor does mutating a returned copy.
	out := ds.Records()
	out[1].LaunchSite = "elsewhere"
	assert.Equal(t, "KSC LC 39A", ds.At(1).LaunchSite)

	sites := ds.Sites()
	sites[0] = "elsewhere"
	assert.True(t, ds.HasSite("CCAFS SLC 40"))
	assert.False(t, ds.HasSite("elsewhere"))
}

func TestOneHot(t *testing.T) {
	ds, err := New(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, [][]bool{
		{true, false, false},
		{false, true, false},
		{false, false, true},
	}, OneHot(ds.Records(), ds.Sites()))

	// A site absent from the records still gets an all-false column.
	rows := OneHot(ds.Records()[1:2], []string{"CCAFS SLC 40", "KSC LC 39A", "Boca Chica"})
	assert.Equal(t, [][]bool{{false, true, false}}, rows)
}

func TestWriteCSV_RoundTripsThroughLoad(t *testing.T) {
	ds, err := New(sampleRecords())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds.Records(), ds.Sites(), DefaultSitePrefix))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "FlightNumber,PayloadMass,LaunchSite_CCAFS SLC 40,LaunchSite_KSC LC 39A,LaunchSite_VAFB SLC 4E,Class", lines[0])
	assert.Equal(t, "2,2500,false,true,false,1", lines[2])

	// The export carries Class, so it can serve as both source tables.
	reloaded, err := Load(strings.NewReader(buf.String()), strings.NewReader(buf.String()), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ds.Records(), reloaded.Records())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "Failure", Failure.String())
	assert.Equal(t, "Success", Success.String())
	assert.Equal(t, "Outcome(7)", Outcome(7).String())
}
