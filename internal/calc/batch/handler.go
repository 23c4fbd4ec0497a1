package batch

import (
	"errors"
	"net/http"

	"Beamcalc/internal/calc/beam"
)

type Handler struct {
	Calculator Calculator
	MaxItems   int
	Recorder   beam.Recorder
}

func (h *Handler) Beam(w http.ResponseWriter, r *http.Request) {
	var input BeamBatchInput
	if !beam.DecodeJSON(w, r, &input) {
		return
	}
	res, err := CalculateBeam(beam.Observe(h.Calculator, h.Recorder), input, h.MaxItems)
	if err != nil {
		writeError(w, err)
		return
	}
	beam.WriteJSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmpty):
		beam.WriteError(w, http.StatusBadRequest, "empty_batch", err.Error())
		return
	case errors.Is(err, ErrTooLarge):
		beam.WriteError(w, http.StatusBadRequest, "batch_too_large", err.Error())
		return
	}
	var itemErr *ItemError
	if errors.As(err, &itemErr) && beam.IsClientError(itemErr.Err) {
		beam.WriteError(w, http.StatusBadRequest, beam.Code(itemErr.Err), err.Error())
		return
	}
	beam.WriteCalcError(w, err)
}
