package beam

import "strings"

// SupportType is the boundary condition of the beam.
type SupportType string

const (
	SimplySupported SupportType = "simply_supported"
	Cantilever      SupportType = "cantilever"
)

// ParseSupportType accepts the wire names, ignoring case and surrounding
// whitespace.
func ParseSupportType(s string) (SupportType, error) {
	t := SupportType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", invalid(ErrUnknownSupportType, "support_type",
			"unknown support type %q (expected %q or %q)", s, SimplySupported, Cantilever)
	}
	return t, nil
}

func (t SupportType) Valid() bool {
	return t == SimplySupported || t == Cantilever
}

// Title is the human-readable name used in reports.
func (t SupportType) Title() string {
	switch t {
	case SimplySupported:
		return "Simply Supported"
	case Cantilever:
		return "Cantilever"
	}
	return string(t)
}

// Input is the request shape shared by every calculation endpoint.
type Input struct {
	Length      float64 `json:"length"`       // m
	Load        float64 `json:"load"`         // N/m, positive acts downward
	SupportType string  `json:"support_type"` // simply_supported or cantilever
}

// BeamSpec is a validated beam. The zero value is not valid; obtain one from
// a Validator.
type BeamSpec struct {
	length  float64
	load    float64
	support SupportType
}

func (s BeamSpec) Length() float64 { return s.length }

func (s BeamSpec) Load() float64 { return s.load }

func (s BeamSpec) SupportType() SupportType { return s.support }

// TotalLoad is the resultant of the distributed load (N).
func (s BeamSpec) TotalLoad() float64 {
	return s.load * s.length
}
