package beam

import (
	"iter"
	"math"
)

const (
	DefaultProfileSamples = 101
	MaxProfileSamples     = 10001
)

// Sample is one station of the shear and moment diagrams.
type Sample struct {
	X      float64 `json:"x"`      // m from x = 0
	Shear  float64 `json:"shear"`  // N
	Moment float64 `json:"moment"` // N·m
}

// MomentProfile is a lazily evaluated set of evenly spaced stations along
// the span, both ends included. Nothing is stored; every iteration starts
// again at x = 0.
type MomentProfile struct {
	spec BeamSpec
	n    int
}

// NewProfile returns a profile with n stations.
func NewProfile(spec BeamSpec, n int) (MomentProfile, error) {
	if n < 2 || n > MaxProfileSamples {
		return MomentProfile{}, invalid(ErrInvalidSamples, "samples",
			"samples must be between 2 and %d, got %d", MaxProfileSamples, n)
	}
	return MomentProfile{spec: spec, n: n}, nil
}

func (p MomentProfile) Spec() BeamSpec { return p.spec }

func (p MomentProfile) Len() int { return p.n }

// At returns station i, 0 <= i < Len().
func (p MomentProfile) At(i int) Sample {
	x := p.spec.length * float64(i) / float64(p.n-1)
	if i >= p.n-1 {
		x = p.spec.length
	}
	return Sample{
		X:      x,
		Shear:  ShearAt(p.spec, x),
		Moment: MomentAt(p.spec, x),
	}
}

// All yields the stations in order.
func (p MomentProfile) All() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for i := 0; i < p.n; i++ {
			if !yield(p.At(i)) {
				return
			}
		}
	}
}

// Peak returns the station with the largest absolute moment. The first one
// wins on ties.
func (p MomentProfile) Peak() Sample {
	var peak Sample
	best := -1.0
	for s := range p.All() {
		if m := math.Abs(s.Moment); m > best {
			best, peak = m, s
		}
	}
	return peak
}
