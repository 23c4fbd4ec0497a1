package beam

import (
	"fmt"
	"math"
)

// SectionModel is the reference cross-section every beam is evaluated with.
// The request contract carries no section data, so these come from
// configuration.
type SectionModel struct {
	MomentOfInertia float64 // I, m^4
	SectionModulus  float64 // S, m^3
	ElasticModulus  float64 // E, Pa
}

// Reference section: IPE 200 in S235 steel.
const (
	DefaultMomentOfInertia = 1.943e-5
	DefaultSectionModulus  = 1.94e-4
	DefaultElasticModulus  = 2.1e11
)

func DefaultSectionModel() SectionModel {
	return SectionModel{
		MomentOfInertia: DefaultMomentOfInertia,
		SectionModulus:  DefaultSectionModulus,
		ElasticModulus:  DefaultElasticModulus,
	}
}

// Validate requires I, S and E to be positive and finite.
func (m SectionModel) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidSectionModel, name, v)
		}
		return nil
	}
	if err := check("moment of inertia (I)", m.MomentOfInertia); err != nil {
		return err
	}
	if err := check("section modulus (S)", m.SectionModulus); err != nil {
		return err
	}
	return check("elastic modulus (E)", m.ElasticModulus)
}

// FlexuralRigidity is E·I (N·m²).
func (m SectionModel) FlexuralRigidity() float64 {
	return m.ElasticModulus * m.MomentOfInertia
}

// Evaluate returns the peak bending stress (Pa) and the maximum deflection
// (m, positive downward). The model must already be validated.
//
//	stress = M / S
//	simply supported: δ = 5wL⁴ / (384EI) at mid-span
//	cantilever:       δ = wL⁴ / (8EI) at the free end
func (m SectionModel) Evaluate(spec BeamSpec, maxMoment float64) (stress, deflection float64) {
	stress = maxMoment / m.SectionModulus

	l4 := math.Pow(spec.length, 4)
	ei := m.FlexuralRigidity()
	switch spec.support {
	case Cantilever:
		deflection = spec.load * l4 / (8 * ei)
	default:
		deflection = 5 * spec.load * l4 / (384 * ei)
	}
	return stress, deflection
}
