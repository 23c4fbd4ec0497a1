package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Beamcalc/internal/calc/beam"

	"github.com/xuri/excelize/v2"
)

const (
	// DefaultMaxRows caps the data rows read from one workbook.
	DefaultMaxRows = 500
	// DefaultMaxUnzipBytes caps the uncompressed size of a workbook.
	DefaultMaxUnzipBytes = 64 << 20
)

// Limits bounds one import. Zero fields take the defaults.
type Limits struct {
	MaxRows int
	// MaxUnzipBytes bounds the unpacked workbook, worksheets included.
	MaxUnzipBytes int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	if l.MaxUnzipBytes <= 0 {
		l.MaxUnzipBytes = DefaultMaxUnzipBytes
	}
	return l
}

var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrEmptySheet      = errors.New("sheet has no data rows")
	ErrMissingColumn   = errors.New("missing column")
	ErrTooManyRows     = errors.New("too many rows")
)

// Columns the header row must name, in any order and letter case.
const (
	ColLength      = "length"
	ColLoad        = "load"
	ColSupportType = "support_type"
)

type Calculator = beam.Calculator

// Row is a calculated sheet row; Row is the 1-based spreadsheet row number.
type Row struct {
	Row    int         `json:"row"`
	Result beam.Result `json:"result"`
}

type RowError struct {
	Row    int    `json:"row"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type Report struct {
	Count   int        `json:"count"`
	Results []Row      `json:"results"`
	Errors  []RowError `json:"errors"`
}

// Import calculates every data row of the first sheet. Bad rows are
// reported in Report.Errors and do not stop the import.
func Import(calc Calculator, r io.Reader, lim Limits) (Report, error) {
	lim = lim.withDefaults()
	f, err := excelize.OpenReader(r, excelize.Options{
		UnzipSizeLimit:    lim.MaxUnzipBytes,
		UnzipXMLSizeLimit: lim.MaxUnzipBytes,
	})
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) < 2 {
		return Report{}, ErrEmptySheet
	}
	cols, err := columns(rows[0])
	if err != nil {
		return Report{}, err
	}

	out := Report{Results: []Row{}, Errors: []RowError{}}
	data := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		data++
		if data > lim.MaxRows {
			return Report{}, fmt.Errorf("%w: more than %d", ErrTooManyRows, lim.MaxRows)
		}
		num := i + 1
		input, err := parseBeamRow(row, cols)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Row: num, Code: "invalid_row", Detail: err.Error()})
			continue
		}
		res, err := calc.Calculate(input)
		if err != nil {
			code := beam.Code(err)
			if code == "" {
				code = "internal"
			}
			out.Errors = append(out.Errors, RowError{Row: num, Code: code, Detail: err.Error()})
			continue
		}
		out.Results = append(out.Results, Row{Row: num, Result: res})
	}
	if data == 0 {
		return Report{}, ErrEmptySheet
	}
	out.Count = len(out.Results)
	return out, nil
}

type columnIndex struct {
	length, load, support int
}

func columns(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	var c columnIndex
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{ColLength, &c.length},
		{ColLoad, &c.load},
		{ColSupportType, &c.support},
	} {
		i, ok := idx[want.name]
		if !ok {
			return columnIndex{}, fmt.Errorf("%w %q", ErrMissingColumn, want.name)
		}
		*want.dst = i
	}
	return c, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseBeamRow(row []string, c columnIndex) (beam.Input, error) {
	length, err := toFloat(cell(row, c.length))
	if err != nil {
		return beam.Input{}, fmt.Errorf("%s: %w", ColLength, err)
	}
	load, err := toFloat(cell(row, c.load))
	if err != nil {
		return beam.Input{}, fmt.Errorf("%s: %w", ColLoad, err)
	}
	return beam.Input{Length: length, Load: load, SupportType: cell(row, c.support)}, nil
}

// toFloat accepts a decimal comma as well as a point.
func toFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty cell")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
