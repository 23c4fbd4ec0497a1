package beam

import (
	"net/http"
	"slices"
)

// Recorder observes calculation outcomes; err is nil on success.
type Recorder interface {
	ObserveCalculation(supportType string, err error)
}

// Calculator is the part of the engine the bulk endpoints need.
type Calculator interface {
	Calculate(in Input) (Result, error)
}

type observed struct {
	calc Calculator
	rec  Recorder
}

func (o observed) Calculate(in Input) (Result, error) {
	res, err := o.calc.Calculate(in)
	o.rec.ObserveCalculation(in.SupportType, err)
	return res, err
}

// Observe records every calculation made through calc on rec. A nil rec
// returns calc unchanged.
func Observe(calc Calculator, rec Recorder) Calculator {
	if rec == nil {
		return calc
	}
	return observed{calc: calc, rec: rec}
}

type Handler struct {
	Engine   *Engine
	Recorder Recorder
}

func (h *Handler) observe(support string, err error) {
	if h.Recorder != nil {
		h.Recorder.ObserveCalculation(support, err)
	}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !DecodeJSON(w, r, &input) {
		return
	}
	res, err := h.Engine.Calculate(input)
	h.observe(input.SupportType, err)
	if err != nil {
		WriteCalcError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

type ProfileInput struct {
	Input
	Samples int `json:"samples"`
}

type ProfileResult struct {
	SupportType SupportType `json:"support_type"`
	Length      float64     `json:"length"`
	Load        float64     `json:"load"`
	Samples     []Sample    `json:"samples"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	var input ProfileInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	spec, err := h.Engine.Validate(input.Input)
	if err != nil {
		WriteCalcError(w, err)
		return
	}
	profile, err := h.Engine.Profile(spec, input.Samples)
	if err != nil {
		WriteCalcError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ProfileResult{
		SupportType: spec.SupportType(),
		Length:      spec.Length(),
		Load:        spec.Load(),
		Samples:     slices.Collect(profile.All()),
	})
}
