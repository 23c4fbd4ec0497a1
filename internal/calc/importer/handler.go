package importer

import (
	"errors"
	"net/http"

	"Beamcalc/internal/calc/beam"
)

const formField = "file"

type Handler struct {
	Calculator Calculator
	Limits     Limits
	Recorder   beam.Recorder
}

func (h *Handler) Beam(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			beam.WriteError(w, http.StatusRequestEntityTooLarge, "request_too_large", "Request body too large")
			return
		}
		beam.WriteError(w, http.StatusBadRequest, "file_required", "File required")
		return
	}
	defer file.Close()

	report, err := Import(beam.Observe(h.Calculator, h.Recorder), file, h.Limits)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWorkbook):
			beam.WriteError(w, http.StatusBadRequest, "invalid_file", "Invalid file")
		case errors.Is(err, ErrEmptySheet):
			beam.WriteError(w, http.StatusBadRequest, "empty_sheet", "Empty sheet")
		case errors.Is(err, ErrMissingColumn):
			beam.WriteError(w, http.StatusBadRequest, "missing_column", err.Error())
		case errors.Is(err, ErrTooManyRows):
			beam.WriteError(w, http.StatusBadRequest, "too_many_rows", err.Error())
		default:
			beam.WriteCalcError(w, err)
		}
		return
	}
	beam.WriteJSON(w, http.StatusOK, report)
}
