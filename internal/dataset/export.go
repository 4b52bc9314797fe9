package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes records in the primary table layout with one-hot site
// columns (prefix+site for each of sites) followed by the Class column.
func WriteCSV(w io.Writer, records []LaunchRecord, sites []string, prefix string) error {
	cw := csv.NewWriter(w)

	head := []string{ColFlightNumber, ColPayloadMass}
	for _, s := range sites {
		head = append(head, prefix+s)
	}
	head = append(head, ColClass)
	if err := cw.Write(head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	onehot := OneHot(records, sites)
	row := make([]string, len(head))
	for k, r := range records {
		row[0] = strconv.Itoa(r.FlightNumber)
		row[1] = strconv.FormatFloat(r.PayloadMass, 'f', -1, 64)
		for i, set := range onehot[k] {
			row[2+i] = strconv.FormatBool(set)
		}
		row[len(row)-1] = strconv.Itoa(int(r.Outcome))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write flight %d: %w", r.FlightNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
