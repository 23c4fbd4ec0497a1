package batch

import (
	"errors"
	"fmt"

	"Beamcalc/internal/calc/beam"
)

// DefaultMaxItems caps a single batch request.
const DefaultMaxItems = 500

var (
	ErrEmpty    = errors.New("batch has no items")
	ErrTooLarge = errors.New("batch has too many items")
)

type Calculator = beam.Calculator

type BeamBatchInput struct {
	Items []beam.Input `json:"items"`
}

type BeamBatchResult struct {
	Results []beam.Result `json:"results"`
}

// ItemError reports which item of a batch failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// CalculateBeam runs every item in order and fails on the first bad one.
// max <= 0 means DefaultMaxItems.
func CalculateBeam(calc Calculator, in BeamBatchInput, max int) (BeamBatchResult, error) {
	if max <= 0 {
		max = DefaultMaxItems
	}
	if len(in.Items) == 0 {
		return BeamBatchResult{}, ErrEmpty
	}
	if len(in.Items) > max {
		return BeamBatchResult{}, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(in.Items), max)
	}
	out := BeamBatchResult{Results: make([]beam.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := calc.Calculate(item)
		if err != nil {
			return BeamBatchResult{}, &ItemError{Index: i, Err: err}
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
