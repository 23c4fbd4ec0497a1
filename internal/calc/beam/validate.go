package beam

import "math"

// Validator turns raw input into a BeamSpec. Checks run in the order
// geometry, load, support type; the first failure is returned.
type Validator struct {
	// AllowNegativeLoad permits upward (negative) loads.
	AllowNegativeLoad bool
}

// Validate checks the input with negative loads permitted.
func Validate(length, load float64, supportType string) (BeamSpec, error) {
	return Validator{AllowNegativeLoad: true}.Validate(length, load, supportType)
}

func (v Validator) Validate(length, load float64, supportType string) (BeamSpec, error) {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return BeamSpec{}, invalid(ErrInvalidGeometry, "length",
			"length must be a positive finite number of meters, got %v", length)
	}
	if math.IsNaN(load) || math.IsInf(load, 0) {
		return BeamSpec{}, invalid(ErrInvalidLoad, "load",
			"load must be a finite number of N/m, got %v", load)
	}
	if load < 0 && !v.AllowNegativeLoad {
		return BeamSpec{}, invalid(ErrInvalidLoad, "load",
			"negative (upward) loads are not accepted, got %v", load)
	}
	support, err := ParseSupportType(supportType)
	if err != nil {
		return BeamSpec{}, err
	}
	if load == 0 {
		// -0 would otherwise leak into every output as -0.
		load = 0
	}
	return BeamSpec{length: length, load: load, support: support}, nil
}
