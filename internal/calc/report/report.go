package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"Beamcalc/internal/calc/beam"
	"Beamcalc/internal/diagram"

	"github.com/phpdave11/gofpdf"
)

const DefaultTitle = "Beam Analysis Report"

// Meta is the free-text heading of a report.
type Meta struct {
	Project string
	Author  string
	Title   string
	Notes   string
}

// Generator lays out a beam analysis as an A4 PDF.
type Generator struct {
	Engine *beam.Engine
	// Samples is the number of profile stations used for the diagrams;
	// zero means the engine default.
	Samples int
	// Now stamps the report date; time.Now when nil.
	Now func() time.Time
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

const (
	pageMargin = 15.0
	lineHeight = 6.0
	labelWidth = 60.0
)

// Render writes the finished PDF for spec to w. Nothing is written when
// rendering fails.
func (g *Generator) Render(w io.Writer, spec beam.BeamSpec, meta Meta) error {
	res := g.Engine.Analyze(spec)
	profile, err := g.Engine.Profile(spec, g.Samples)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	shearPNG, err := diagram.PNG(profile, diagram.Shear, diagram.DefaultWidth, diagram.DefaultHeight)
	if err != nil {
		return err
	}
	momentPNG, err := diagram.PNG(profile, diagram.Moment, diagram.DefaultWidth, diagram.DefaultHeight)
	if err != nil {
		return err
	}

	if meta.Title == "" {
		meta.Title = DefaultTitle
	}
	date := g.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator("beamcalc", true)
	pdf.SetCreationDate(date)
	pdf.SetCatalogSort(true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, lineHeight, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(lineHeight)
	pdf.Cell(0, lineHeight, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(lineHeight)
	pdf.Cell(0, lineHeight, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(lineHeight + 4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, lineHeight+1, tr(title), "", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.Ln(1)
	}
	row := func(label, value string) {
		pdf.CellFormat(labelWidth, lineHeight, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr(value), "", 1, "L", false, 0, "")
	}

	section("Input")
	row("Support type", spec.SupportType().Title())
	row("Span length", fmt.Sprintf("%.3f m", spec.Length()))
	row("Distributed load", fmt.Sprintf("%.2f N/m", spec.Load()))
	row("Total load", fmt.Sprintf("%.2f N", spec.TotalLoad()))
	pdf.Ln(3)

	section("Reactions")
	for _, loc := range res.Reactions.Locations() {
		force, _ := res.Reactions.Force(loc)
		row(fmt.Sprintf("R %s", loc), fmt.Sprintf("%.2f N", force))
	}
	if spec.SupportType() == beam.Cantilever {
		row("M fixed", fmt.Sprintf("%.2f N·m", res.Reactions.Fixed.Moment))
	}
	pdf.Ln(3)

	section("Results")
	row("Max bending moment", fmt.Sprintf("%.2f N·m", res.MaxMoment))
	row("Max shear force", fmt.Sprintf("%.2f N", res.MaxShear))
	row("Bending stress", fmt.Sprintf("%.4g Pa (%.2f MPa)", res.Stress, res.Stress/1e6))
	row("Deflection", fmt.Sprintf("%.6f m (%.2f mm)", res.Deflection, res.Deflection*1e3))
	row("Deflection limit", fmt.Sprintf("L/%g = %.2f mm", g.Engine.DeflectionLimitRatio(), res.DeflectionLimit*1e3))
	status := "OK"
	if !res.DeflectionOK {
		status = "EXCEEDED"
	}
	row("Deflection check", status)
	pdf.Ln(3)

	sm := g.Engine.Section()
	section("Section model")
	row("Moment of inertia I", fmt.Sprintf("%.4e m^4", sm.MomentOfInertia))
	row("Section modulus S", fmt.Sprintf("%.4e m³", sm.SectionModulus))
	row("Elastic modulus E", fmt.Sprintf("%.4e Pa", sm.ElasticModulus))
	pdf.Ln(3)

	section("Diagrams")
	pageW, _ := pdf.GetPageSize()
	imgW := pageW - 2*pageMargin
	imgH := imgW * float64(diagram.DefaultHeight) / float64(diagram.DefaultWidth)
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	for name, img := range map[string][]byte{"shear": shearPNG, "moment": momentPNG} {
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	}
	for _, name := range []string{"shear", "moment"} {
		pdf.ImageOptions(name, pageMargin, -1, imgW, imgH, true, opts, 0, "")
		pdf.Ln(2)
	}

	if meta.Notes != "" {
		section("Notes")
		pdf.MultiCell(0, lineHeight, tr(meta.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
