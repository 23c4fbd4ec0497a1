package diagram

import (
	"bytes"
	"fmt"
	"image/color"

	"Beamcalc/internal/calc/beam"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Kind selects which internal force is drawn.
type Kind int

const (
	Shear Kind = iota
	Moment
)

func (k Kind) String() string {
	if k == Shear {
		return "shear"
	}
	return "moment"
}

// Default image size, in the same aspect the report lays them out.
var (
	DefaultWidth  = 7 * vg.Inch
	DefaultHeight = 3 * vg.Inch
)

var (
	shearColor  = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	shearFill   = color.RGBA{R: 144, G: 238, B: 144, A: 120}
	momentColor = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	momentFill  = color.RGBA{R: 100, G: 149, B: 237, A: 120}
	axisColor   = color.Gray{Y: 80}
)

// Plot builds the diagram of one internal force along the span.
func Plot(profile beam.MomentProfile, kind Kind) (*plot.Plot, error) {
	spec := profile.Spec()

	p := plot.New()
	p.X.Label.Text = "Position x (m)"
	switch kind {
	case Shear:
		p.Title.Text = "Shear Force Diagram"
		p.Y.Label.Text = "Shear V (N)"
	default:
		p.Title.Text = "Bending Moment Diagram"
		p.Y.Label.Text = "Moment M (N·m)"
	}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, profile.Len())
	for s := range profile.All() {
		y := s.Moment
		if kind == Shear {
			y = s.Shear
		}
		pts = append(pts, plotter.XY{X: s.X, Y: y})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("%s line: %w", kind, err)
	}
	line.LineStyle.Width = vg.Points(2)
	if kind == Shear {
		line.LineStyle.Color = shearColor
		line.FillColor = shearFill
	} else {
		line.LineStyle.Color = momentColor
		line.FillColor = momentFill
	}
	p.Add(line)

	// Beam axis
	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: spec.Length(), Y: 0}})
	if err != nil {
		return nil, err
	}
	axis.LineStyle.Width = vg.Points(1)
	axis.LineStyle.Color = axisColor
	axis.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(axis)

	peak := extremum(pts)
	marker, err := plotter.NewScatter(plotter.XYs{peak})
	if err != nil {
		return nil, err
	}
	marker.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	marker.GlyphStyle.Radius = vg.Points(3)
	marker.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(marker)

	unit := "N·m"
	if kind == Shear {
		unit = "N"
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{peak},
		Labels: []string{fmt.Sprintf("%.2f %s @ x=%.2f m", peak.Y, unit, peak.X)},
	})
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.X.Min = 0
	p.X.Max = spec.Length()
	return p, nil
}

// PNG renders the diagram to PNG bytes.
func PNG(profile beam.MomentProfile, kind Kind, width, height vg.Length) ([]byte, error) {
	p, err := Plot(profile, kind)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("render %s diagram: %w", kind, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s diagram: %w", kind, err)
	}
	return buf.Bytes(), nil
}

// extremum returns the point with the largest |Y|, first on ties.
func extremum(pts plotter.XYs) plotter.XY {
	var best plotter.XY
	bestAbs := -1.0
	for _, pt := range pts {
		a := pt.Y
		if a < 0 {
			a = -a
		}
		if a > bestAbs {
			bestAbs, best = a, pt
		}
	}
	return best
}
