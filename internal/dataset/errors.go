package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad marks an unreadable or malformed source table.
	ErrDataLoad = errors.New("data load error")
	// ErrDataIntegrity marks a join that produced duplicate or missing keys.
	ErrDataIntegrity = errors.New("data integrity error")
	// ErrEmptyDataset is returned when payload bounds are requested for zero rows.
	ErrEmptyDataset = errors.New("empty dataset")
)

// LoadError describes a failure to read or parse one source table.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrDataLoad, e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrDataLoad, e.Err} }

// IntegrityError describes a row that breaks the join invariants.
type IntegrityError struct {
	FlightNumber int
	Reason       string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: flight %d: %s", ErrDataIntegrity, e.FlightNumber, e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrDataIntegrity }
