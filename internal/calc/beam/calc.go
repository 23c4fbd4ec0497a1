package beam

import (
	"fmt"
	"math"
)

// DefaultDeflectionLimitRatio gives the serviceability limit L/250.
const DefaultDeflectionLimitRatio = 250

type Result struct {
	Reactions       ReactionSet `json:"reactions"`
	MaxMoment       float64     `json:"max_moment"`       // N·m
	Stress          float64     `json:"stress"`           // Pa
	Deflection      float64     `json:"deflection"`       // m
	MaxShear        float64     `json:"max_shear"`        // N
	DeflectionLimit float64     `json:"deflection_limit"` // m
	DeflectionOK    bool        `json:"deflection_ok"`
}

// Engine runs validate → solve → evaluate. It holds only read-only
// configuration and is safe for concurrent use.
type Engine struct {
	section    SectionModel
	validator  Validator
	limitRatio float64
	samples    int
}

type Option func(*Engine)

// WithNegativeLoad sets whether upward loads are accepted. Default true.
func WithNegativeLoad(allow bool) Option {
	return func(e *Engine) { e.validator.AllowNegativeLoad = allow }
}

// WithDeflectionLimitRatio sets n in the L/n deflection limit.
func WithDeflectionLimitRatio(n float64) Option {
	return func(e *Engine) { e.limitRatio = n }
}

// WithProfileSamples sets the default number of moment profile stations.
func WithProfileSamples(n int) Option {
	return func(e *Engine) { e.samples = n }
}

// NewEngine validates the section model once; a broken model is fatal.
func NewEngine(section SectionModel, opts ...Option) (*Engine, error) {
	e := &Engine{
		section:    section,
		validator:  Validator{AllowNegativeLoad: true},
		limitRatio: DefaultDeflectionLimitRatio,
		samples:    DefaultProfileSamples,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := section.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(e.limitRatio) || math.IsInf(e.limitRatio, 0) || e.limitRatio <= 0 {
		return nil, fmt.Errorf("%w: deflection limit ratio must be positive, got %v", ErrInvalidSectionModel, e.limitRatio)
	}
	if e.samples < 2 || e.samples > MaxProfileSamples {
		return nil, fmt.Errorf("profile samples must be between 2 and %d, got %d", MaxProfileSamples, e.samples)
	}
	return e, nil
}

func (e *Engine) Section() SectionModel { return e.section }

func (e *Engine) DeflectionLimitRatio() float64 { return e.limitRatio }

// Validate checks in and also rejects beams whose results would overflow
// float64 with the configured section.
func (e *Engine) Validate(in Input) (BeamSpec, error) {
	spec, err := e.validator.Validate(in.Length, in.Load, in.SupportType)
	if err != nil {
		return BeamSpec{}, err
	}
	if err := e.checkRange(spec); err != nil {
		return BeamSpec{}, err
	}
	return spec, nil
}

// checkRange blames the length when even a unit load overflows, else the load.
func (e *Engine) checkRange(spec BeamSpec) error {
	if e.Analyze(spec).finite() {
		return nil
	}
	unit := BeamSpec{length: spec.length, load: 1, support: spec.support}
	if !e.Analyze(unit).finite() {
		return invalid(ErrInvalidGeometry, "length",
			"length %v m is too large: results overflow", spec.length)
	}
	return invalid(ErrInvalidLoad, "load",
		"load %v N/m is too large for a %v m span: results overflow", spec.load, spec.length)
}

func (r Result) finite() bool {
	for _, v := range []float64{
		r.Reactions.Left, r.Reactions.Right, r.Reactions.Fixed.Force, r.Reactions.Fixed.Moment,
		r.MaxMoment, r.Stress, r.Deflection, r.MaxShear, r.DeflectionLimit,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Analyze evaluates an already validated beam. It cannot fail.
func (e *Engine) Analyze(spec BeamSpec) Result {
	st := Solve(spec)
	stress, defl := e.section.Evaluate(spec, st.MaxMoment)
	limit := spec.length / e.limitRatio
	return Result{
		Reactions:       st.Reactions,
		MaxMoment:       st.MaxMoment,
		Stress:          stress,
		Deflection:      defl,
		MaxShear:        st.MaxShear,
		DeflectionLimit: limit,
		DeflectionOK:    math.Abs(defl) <= limit,
	}
}

// Calculate validates in and analyzes it. On error no partial result is
// returned.
func (e *Engine) Calculate(in Input) (Result, error) {
	spec, err := e.Validate(in)
	if err != nil {
		return Result{}, err
	}
	return e.Analyze(spec), nil
}

// Profile returns the moment profile of spec. samples <= 0 selects the
// configured default.
func (e *Engine) Profile(spec BeamSpec, samples int) (MomentProfile, error) {
	if samples <= 0 {
		samples = e.samples
	}
	return NewProfile(spec, samples)
}
