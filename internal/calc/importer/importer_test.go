package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Beamcalc/internal/calc/beam"

	"github.com/xuri/excelize/v2"
)

func newEngine(t *testing.T) *beam.Engine {
	t.Helper()
	e, err := beam.NewEngine(beam.DefaultSectionModel())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// workbook writes rows into Sheet1 starting at A1.
func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestImport(t *testing.T) {
	buf := workbook(t,
		[]any{"Length", "Load", "Support_Type"},
		[]any{5, 10, "simply_supported"},
		[]any{5, 10, "cantilever"},
		[]any{"", "", ""},
		[]any{-2, 10, "cantilever"},
		[]any{"abc", 10, "cantilever"},
		[]any{"4,5", 2, "Cantilever"},
	)
	rep, err := Import(newEngine(t), buf, Limits{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Count != 3 || len(rep.Results) != 3 {
		t.Fatalf("want 3 results, got count=%d len=%d", rep.Count, len(rep.Results))
	}
	if rep.Results[0].Row != 2 || rep.Results[0].Result.MaxMoment != 31.25 {
		t.Fatalf("unexpected first row %+v", rep.Results[0])
	}
	if rep.Results[1].Row != 3 || rep.Results[1].Result.MaxMoment != 125 {
		t.Fatalf("unexpected second row %+v", rep.Results[1])
	}
	if rep.Results[2].Row != 7 {
		t.Fatalf("decimal comma row should be row 7, got %d", rep.Results[2].Row)
	}
	if len(rep.Errors) != 2 {
		t.Fatalf("want 2 row errors, got %+v", rep.Errors)
	}
	if rep.Errors[0].Row != 5 || rep.Errors[0].Code != "invalid_geometry" {
		t.Fatalf("unexpected error %+v", rep.Errors[0])
	}
	if rep.Errors[1].Row != 6 || rep.Errors[1].Code != "invalid_row" || !strings.Contains(rep.Errors[1].Detail, "length") {
		t.Fatalf("unexpected error %+v", rep.Errors[1])
	}
}

func TestImport_ColumnOrder(t *testing.T) {
	buf := workbook(t,
		[]any{"support_type", "note", "load", "length"},
		[]any{"cantilever", "roof", 10, 5},
	)
	rep, err := Import(newEngine(t), buf, Limits{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Count != 1 || rep.Results[0].Result.MaxMoment != 125 {
		t.Fatalf("columns should be found by header, got %+v", rep)
	}
}

func TestImport_Errors(t *testing.T) {
	engine := newEngine(t)

	if _, err := Import(engine, strings.NewReader("not a workbook"), Limits{}); !errors.Is(err, ErrInvalidWorkbook) {
		t.Fatalf("want ErrInvalidWorkbook, got %v", err)
	}
	if _, err := Import(engine, workbook(t, []any{"length", "load", "support_type"}), Limits{}); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("want ErrEmptySheet, got %v", err)
	}
	if _, err := Import(engine, workbook(t, []any{"length", "load"}, []any{1, 2}), Limits{}); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
	buf := workbook(t,
		[]any{"length", "load", "support_type"},
		[]any{1, 1, "cantilever"},
		[]any{1, 1, "cantilever"},
	)
	if _, err := Import(engine, buf, Limits{MaxRows: 1}); !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("want ErrTooManyRows, got %v", err)
	}
}

func upload(t *testing.T, h *Handler, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "beams.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/beam/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Beam(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	h := &Handler{Calculator: newEngine(t)}
	buf := workbook(t,
		[]any{"length", "load", "support_type"},
		[]any{5, 10, "simply_supported"},
		[]any{5, 10, "portal"},
	)
	rec := upload(t, h, "file", buf.Bytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rep Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Count != 1 || len(rep.Errors) != 1 || rep.Errors[0].Code != "unknown_support_type" {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestHandler_Errors(t *testing.T) {
	h := &Handler{Calculator: newEngine(t)}
	cases := []struct {
		name, field, code string
		content           []byte
	}{
		{"no file", "upload", "file_required", []byte("x")},
		{"not xlsx", "file", "invalid_file", []byte("plain text")},
		{"header only", "file", "empty_sheet", workbook(t, []any{"length", "load", "support_type"}).Bytes()},
	}
	for _, tc := range cases {
		rec := upload(t, h, tc.field, tc.content)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", tc.name, rec.Code)
		}
		var body beam.ErrorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if body.Code != tc.code {
			t.Fatalf("%s: want %q, got %q", tc.name, tc.code, body.Code)
		}
	}
}

func TestImport_UnzipLimit(t *testing.T) {
	buf := workbook(t,
		[]any{"length", "load", "support_type"},
		[]any{5, 10, "cantilever"},
	)
	_, err := Import(newEngine(t), bytes.NewReader(buf.Bytes()), Limits{MaxUnzipBytes: 512})
	if !errors.Is(err, ErrInvalidWorkbook) {
		t.Fatalf("workbook over the unzip limit should be rejected, got %v", err)
	}
	if _, err := Import(newEngine(t), bytes.NewReader(buf.Bytes()), Limits{}); err != nil {
		t.Fatalf("same workbook under the default limit: %v", err)
	}
}

type countingRecorder struct {
	ok, failed int
}

func (c *countingRecorder) ObserveCalculation(_ string, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func TestHandler_RecordsCalculations(t *testing.T) {
	counts := &countingRecorder{}
	h := &Handler{Calculator: newEngine(t), Recorder: counts}
	buf := workbook(t,
		[]any{"length", "load", "support_type"},
		[]any{5, 10, "simply_supported"},
		[]any{5, 10, "cantilever"},
		[]any{5, 10, "portal"},
		[]any{"x", 10, "cantilever"},
	)
	rec := upload(t, h, "file", buf.Bytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// Unparseable rows never reach the engine.
	if counts.ok != 2 || counts.failed != 1 {
		t.Fatalf("recorder want 2/1, got %d/%d", counts.ok, counts.failed)
	}
}
