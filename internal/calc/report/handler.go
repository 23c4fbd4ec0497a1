package report

import (
	"bytes"
	"net/http"
	"strconv"

	"Beamcalc/internal/calc/beam"
	"Beamcalc/internal/logging"
)

type Input struct {
	beam.Input
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type Handler struct {
	Generator *Generator
	Recorder  beam.Recorder
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !beam.DecodeJSON(w, r, &input) {
		return
	}
	spec, err := h.Generator.Engine.Validate(input.Input)
	if h.Recorder != nil {
		h.Recorder.ObserveCalculation(input.SupportType, err)
	}
	if err != nil {
		beam.WriteCalcError(w, err)
		return
	}

	var buf bytes.Buffer
	meta := Meta{Project: input.Project, Author: input.Author, Title: input.Title, Notes: input.Notes}
	if err := h.Generator.Render(&buf, spec, meta); err != nil {
		logging.FromContext(r.Context()).Error("report generation failed", "error", err)
		beam.WriteError(w, http.StatusInternalServerError, "report_failed", "Report generation error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"beam_report.pdf\"")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
