package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/launchdash/internal/dataset"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return string(<-done)
}

const launchesCSV = `FlightNumber,PayloadMass,LaunchSite_CCAFS SLC 40,LaunchSite_KSC LC 39A,LaunchSite_VAFB SLC 4E
1,0,True,False,False
2,525,True,False,False
3,2000,False,True,False
4,500,False,False,True
5,5300,False,True,False
6,9600,True,False,False
7,3000,False,False,True
`

const outcomesCSV = `FlightNumber,Class
1,0
2,1
3,1
4,0
5,1
6,1
`

// writeFixtures writes both source tables and a config path into a temp dir
// and returns the global args that point at them.
func writeFixtures(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	primary := filepath.Join(dir, "launches.csv")
	secondary := filepath.Join(dir, "outcomes.csv")
	require.NoError(t, os.WriteFile(primary, []byte(launchesCSV), 0644))
	require.NoError(t, os.WriteFile(secondary, []byte(outcomesCSV), 0644))
	return []string{
		"--config", filepath.Join(dir, "launchdash.yaml"),
		"--primary", primary,
		"--secondary", secondary,
	}
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	args := writeFixtures(t)
	ds, err := dataset.LoadFiles(t.Context(), args[3], args[5], dataset.DefaultOptions())
	require.NoError(t, err)
	return ds
}
