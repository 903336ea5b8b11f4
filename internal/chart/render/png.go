package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/i474232898/climate-chart/internal/chart"
)

// ErrEmptyPlan is returned when asked to rasterize a plan with no primitives.
var ErrEmptyPlan = errors.New("render plan is empty")

// Options controls rasterization.
type Options struct {
	// Scale is the device pixel ratio; the output image is Scale times the
	// logical canvas size. Zero means 2.
	Scale float64
	// FontPath is an optional TrueType font. The built-in bitmap face is
	// used when empty.
	FontPath   string
	Background color.Color
}

// DefaultOptions returns the options used by the HTTP API and the CLI.
func DefaultOptions() Options {
	return Options{
		Scale:      2,
		Background: color.White,
	}
}

// PNG rasterizes plan and writes it to w as a PNG image.
func PNG(w io.Writer, plan chart.RenderPlan, opts Options) error {
	if plan.Empty() {
		return ErrEmptyPlan
	}

	scale := opts.Scale
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 2
	}

	width := int(math.Ceil(plan.Size.Width * scale))
	height := int(math.Ceil(plan.Size.Height * scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %gx%g", chart.ErrInvalidCanvas, plan.Size.Width, plan.Size.Height)
	}

	dc := gg.NewContext(width, height)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}
	dc.Scale(scale, scale)

	// Glyphs are positioned through the matrix but not scaled by it.
	if opts.FontPath != "" {
		if err := dc.LoadFontFace(opts.FontPath, chart.LabelFont.Size*scale); err != nil {
			return fmt.Errorf("load font %s: %w", opts.FontPath, err)
		}
	}

	r := rasterizer{dc: dc, scale: scale}
	for _, p := range plan.Primitives {
		r.draw(p)
	}

	return dc.EncodePNG(w)
}

// rasterizer draws primitives in logical coordinates. gg scales paths and
// glyphs through its matrix but not line widths.
type rasterizer struct {
	dc    *gg.Context
	scale float64
}

func (r rasterizer) draw(p chart.Primitive) {
	dc := r.dc
	switch p := p.(type) {
	case chart.Line:
		dc.NewSubPath()
		dc.MoveTo(p.From.X, p.From.Y)
		dc.LineTo(p.To.X, p.To.Y)
		r.stroke(p.Stroke)

	case chart.Polyline:
		if len(p.Points) == 0 {
			return
		}
		dc.NewSubPath()
		dc.MoveTo(p.Points[0].X, p.Points[0].Y)
		for _, pt := range p.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		r.stroke(p.Stroke)

	case chart.Rect:
		dc.DrawRectangle(p.Origin.X, p.Origin.Y, p.Width, p.Height)
		dc.SetColor(p.Fill)
		dc.Fill()

	case chart.Marker:
		x, y, w, h := p.Bounds()
		dc.DrawRectangle(x, y, w, h)
		dc.SetColor(p.Fill)
		dc.Fill()

	case chart.Text:
		dc.SetColor(p.Fill)
		dc.DrawString(p.Value, p.Origin.X, p.Origin.Y)
	}
}

func (r rasterizer) stroke(s chart.Stroke) {
	dc := r.dc
	dc.SetColor(s.Color)
	dc.SetLineWidth(s.Width * r.scale)

	switch s.Cap {
	case chart.CapRound:
		dc.SetLineCapRound()
	default:
		dc.SetLineCapButt()
	}
	switch s.Join {
	case chart.JoinRound:
		dc.SetLineJoinRound()
	default:
		dc.SetLineJoinBevel()
	}

	dc.Stroke()
}
