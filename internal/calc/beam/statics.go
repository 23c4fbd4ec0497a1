package beam

import "encoding/json"

// Reaction locations.
const (
	LocationLeft  = "left"
	LocationRight = "right"
	LocationFixed = "fixed"
)

// FixedReaction is the force and moment at a cantilever's built-in end.
type FixedReaction struct {
	Force  float64 `json:"force"`  // N
	Moment float64 `json:"moment"` // N·m
}

// ReactionSet holds the support reactions. Left/Right are set for simply
// supported beams, Fixed for cantilevers.
type ReactionSet struct {
	support SupportType
	Left    float64
	Right   float64
	Fixed   FixedReaction
}

func (r ReactionSet) SupportType() SupportType { return r.support }

// Locations lists the support locations in wire order.
func (r ReactionSet) Locations() []string {
	if r.support == Cantilever {
		return []string{LocationFixed}
	}
	return []string{LocationLeft, LocationRight}
}

// Force returns the vertical reaction at location.
func (r ReactionSet) Force(location string) (float64, bool) {
	switch {
	case r.support == Cantilever && location == LocationFixed:
		return r.Fixed.Force, true
	case r.support == SimplySupported && location == LocationLeft:
		return r.Left, true
	case r.support == SimplySupported && location == LocationRight:
		return r.Right, true
	}
	return 0, false
}

// TotalForce is the sum of vertical reactions; it equals the total load.
func (r ReactionSet) TotalForce() float64 {
	if r.support == Cantilever {
		return r.Fixed.Force
	}
	return r.Left + r.Right
}

// MarshalJSON writes {"left":..,"right":..} or {"fixed":{"force":..,"moment":..}}.
func (r ReactionSet) MarshalJSON() ([]byte, error) {
	if r.support == Cantilever {
		return json.Marshal(map[string]FixedReaction{LocationFixed: r.Fixed})
	}
	return json.Marshal(map[string]float64{
		LocationLeft:  r.Left,
		LocationRight: r.Right,
	})
}

// Statics is the solver output.
type Statics struct {
	Reactions   ReactionSet
	MaxMoment   float64 // N·m
	MaxMomentAt float64 // m from x = 0
	MaxShear    float64 // N
}

// Solve computes reactions and the moment extremum in closed form.
//
// Simply supported:  R = wL/2 each side, Mmax = wL²/8 at mid-span.
// Cantilever (fixed at x = 0): R = wL, Mfixed = wL²/2, Mmax at the fixed end.
func Solve(spec BeamSpec) Statics {
	w, l := spec.load, spec.length
	switch spec.support {
	case Cantilever:
		force := w * l
		moment := w * l * l / 2
		return Statics{
			Reactions: ReactionSet{
				support: Cantilever,
				Fixed:   FixedReaction{Force: force, Moment: moment},
			},
			MaxMoment:   moment,
			MaxMomentAt: 0,
			MaxShear:    force,
		}
	default:
		r := w * l / 2
		return Statics{
			Reactions: ReactionSet{
				support: SimplySupported,
				Left:    r,
				Right:   r,
			},
			MaxMoment:   w * l * l / 8,
			MaxMomentAt: l / 2,
			MaxShear:    r,
		}
	}
}

// ShearAt returns V(x). x is clamped to [0, L].
func ShearAt(spec BeamSpec, x float64) float64 {
	x = clamp(x, spec.length)
	w, l := spec.load, spec.length
	if spec.support == Cantilever {
		return w * (l - x)
	}
	return w*l/2 - w*x
}

// MomentAt returns M(x). For cantilevers the hogging moment is reported as a
// magnitude so it matches the fixed-end reaction moment.
func MomentAt(spec BeamSpec, x float64) float64 {
	x = clamp(x, spec.length)
	w, l := spec.load, spec.length
	if spec.support == Cantilever {
		free := l - x
		return w * free * free / 2
	}
	return w*l/2*x - w*x*x/2
}

func clamp(x, l float64) float64 {
	if x < 0 {
		return 0
	}
	if x > l {
		return l
	}
	return x
}
