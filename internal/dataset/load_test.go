package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launchesCSV = `FlightNumber,PayloadMass,Orbit,LaunchSite_CCAFS SLC 40,LaunchSite_KSC LC 39A,LaunchSite_VAFB SLC 4E
1,6104.959411764706,LEO,True,False,False
2,525.0,LEO,True,False,False
3,677.0,ISS,False,True,False
4,500.0,PO,False,False,True
5,3170.0,GTO,False,True,False
6,3325.0,GTO,True,False,False
`

const outcomesCSV = `FlightNumber,Date,BoosterVersion,Class
1,2010-06-04,Falcon 9,0
2,2012-05-22,Falcon 9,1
3,2013-03-01,Falcon 9,1
4,2013-09-29,Falcon 9,0
5,2013-12-03,Falcon 9,1
`

func TestLoad_InnerJoinDropsUnmatched(t *testing.T) {
	ds, err := Load(strings.NewReader(launchesCSV), strings.NewReader(outcomesCSV), DefaultOptions())
	require.NoError(t, err)

	want := []LaunchRecord{
		{FlightNumber: 1, LaunchSite: "CCAFS SLC 40", PayloadMass: 6104.959411764706, Outcome: Failure},
		{FlightNumber: 2, LaunchSite: "CCAFS SLC 40", PayloadMass: 525, Outcome: Success},
		{FlightNumber: 3, LaunchSite: "KSC LC 39A", PayloadMass: 677, Outcome: Success},
		{FlightNumber: 4, LaunchSite: "VAFB SLC 4E", PayloadMass: 500, Outcome: Failure},
		{FlightNumber: 5, LaunchSite: "KSC LC 39A", PayloadMass: 3170, Outcome: Success},
	}
	if diff := cmp.Diff(want, ds.Records()); diff != "" {
		t.Errorf("joined records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{6}, ds.Unmatched())
	assert.Equal(t, []string{"CCAFS SLC 40", "KSC LC 39A", "VAFB SLC 4E"}, ds.Sites())
}

func TestLoad_EveryMatchedRowAppearsOnce(t *testing.T) {
	ds, err := Load(strings.NewReader(launchesCSV), strings.NewReader(outcomesCSV), DefaultOptions())
	require.NoError(t, err)

	counts := map[int]int{}
	for _, r := range ds.Records() {
		counts[r.FlightNumber]++
	}
	for flight := 1; flight <= 5; flight++ {
		assert.Equal(t, 1, counts[flight], "flight %d", flight)
	}
	assert.NotContains(t, counts, 6)
}

func TestLoad_StrictJoinFailsOnMissingOutcome(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictJoin = true

	_, err := Load(strings.NewReader(launchesCSV), strings.NewReader(outcomesCSV), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 6, ie.FlightNumber)
}

func TestLoad_DuplicateKeys(t *testing.T) {
	tests := []struct {
		name       string
		launches   string
		outcomes   string
		wantFlight int
	}{
		{
			name:       "duplicate in launch table",
			launches:   "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n1,20,1\n",
			outcomes:   "FlightNumber,Class\n1,1\n",
			wantFlight: 1,
		},
		{
			name:       "duplicate in outcome table",
			launches:   "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n2,20,1\n",
			outcomes:   "FlightNumber,Class\n1,1\n2,0\n2,1\n",
			wantFlight: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.launches), strings.NewReader(tc.outcomes), DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataIntegrity))
			var ie *IntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.wantFlight, ie.FlightNumber)
		})
	}
}

func TestLoad_MalformedInputs(t *testing.T) {
	tests := []struct {
		name     string
		launches string
		outcomes string
		wantMsg  string
	}{
		{
			name:     "missing payload column",
			launches: "FlightNumber,LaunchSite_A\n1,1\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  `missing required column "PayloadMass"`,
		},
		{
			name:     "missing class column",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n",
			outcomes: "FlightNumber,Outcome\n1,True ASDS\n",
			wantMsg:  `missing required column "Class"`,
		},
		{
			name:     "missing join key in outcomes",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n",
			outcomes: "Class\n1\n",
			wantMsg:  `missing required column "FlightNumber"`,
		},
		{
			name:     "no site columns",
			launches: "FlightNumber,PayloadMass\n1,10\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  "no launch site columns",
		},
		{
			name:     "non-numeric payload",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,heavy,1\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  `line 2: invalid PayloadMass "heavy"`,
		},
		{
			name:     "negative payload",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,-5,1\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  "invalid PayloadMass",
		},
		{
			name:     "bad class value",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n",
			outcomes: "FlightNumber,Class\n1,2\n",
			wantMsg:  `invalid Class "2"`,
		},
		{
			name:     "bad boolean",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10,maybe\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  `invalid boolean "maybe"`,
		},
		{
			name:     "fractional flight number",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1.5,10,1\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  `invalid FlightNumber "1.5"`,
		},
		{
			name:     "flight number beyond int range",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n",
			outcomes: "FlightNumber,Class\n1e30,1\n",
			wantMsg:  `invalid FlightNumber "1e30"`,
		},
		{
			name:     "flight number below int range",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n-1e19,10,1\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  `invalid FlightNumber "-1e19"`,
		},
		{
			name:     "ragged row",
			launches: "FlightNumber,PayloadMass,LaunchSite_A\n1,10\n",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  "wrong number of fields",
		},
		{
			name:     "empty file",
			launches: "",
			outcomes: "FlightNumber,Class\n1,1\n",
			wantMsg:  "missing header row",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.launches), strings.NewReader(tc.outcomes), DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataLoad), "want ErrDataLoad, got %v", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestLoad_OneHotMustSelectExactlyOneSite(t *testing.T) {
	outcomes := "FlightNumber,Class\n1,1\n"

	_, err := Load(strings.NewReader("FlightNumber,PayloadMass,LaunchSite_A,LaunchSite_B\n1,10,0,0\n"), strings.NewReader(outcomes), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
	assert.Contains(t, err.Error(), "no launch site column set")

	_, err = Load(strings.NewReader("FlightNumber,PayloadMass,LaunchSite_A,LaunchSite_B\n1,10,1,1\n"), strings.NewReader(outcomes), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
	assert.Contains(t, err.Error(), "multiple launch site columns set: A, B")
}

func TestLoad_CategoricalSiteColumn(t *testing.T) {
	launches := "FlightNumber,PayloadMass,LaunchSite\n1,10,KSC LC 39A\n2,20.5,VAFB SLC 4E\n"
	outcomes := "FlightNumber,Class\n1,1.0\n2,0.0\n"

	ds, err := Load(strings.NewReader(launches), strings.NewReader(outcomes), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "KSC LC 39A", ds.At(0).LaunchSite)
	assert.Equal(t, Success, ds.At(0).Outcome)
	assert.Equal(t, Failure, ds.At(1).Outcome)
}

func TestLoad_CustomSitePrefix(t *testing.T) {
	launches := "FlightNumber,PayloadMass,Site=A,Site=B\n1,10,0,1\n"
	outcomes := "FlightNumber,Class\n1,1\n"

	ds, err := Load(strings.NewReader(launches), strings.NewReader(outcomes), Options{SitePrefix: "Site="})
	require.NoError(t, err)
	assert.Equal(t, "B", ds.At(0).LaunchSite)
}

func TestLoad_FloatFlightNumbers(t *testing.T) {
	launches := "FlightNumber,PayloadMass,LaunchSite_A\n7.0,10,1\n"
	outcomes := "FlightNumber,Class\n7,1\n"

	ds, err := Load(strings.NewReader(launches), strings.NewReader(outcomes), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 7, ds.At(0).FlightNumber)
}

func TestLoad_NoMatchesIsEmptyDataset(t *testing.T) {
	launches := "FlightNumber,PayloadMass,LaunchSite_A\n1,10,1\n"
	outcomes := "FlightNumber,Class\n2,1\n"

	_, err := Load(strings.NewReader(launches), strings.NewReader(outcomes), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "dataset_part_3.csv")
	secondary := filepath.Join(dir, "dataset_part_2.csv")
	require.NoError(t, os.WriteFile(primary, []byte(launchesCSV), 0644))
	require.NoError(t, os.WriteFile(secondary, []byte(outcomesCSV), 0644))

	ds, err := LoadFiles(context.Background(), primary, secondary, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, Bounds{MinPayload: 500, MaxPayload: 6104.959411764706}, ds.Bounds())
}

func TestLoadFiles_MissingFile(t *testing.T) {
	dir := t.TempDir()
	secondary := filepath.Join(dir, "outcomes.csv")
	require.NoError(t, os.WriteFile(secondary, []byte(outcomesCSV), 0644))

	_, err := LoadFiles(context.Background(), filepath.Join(dir, "nope.csv"), secondary, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFiles_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "launches.csv")
	secondary := filepath.Join(dir, "outcomes.csv")
	require.NoError(t, os.WriteFile(primary, []byte(launchesCSV), 0644))
	require.NoError(t, os.WriteFile(secondary, []byte(outcomesCSV), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, primary, secondary, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
