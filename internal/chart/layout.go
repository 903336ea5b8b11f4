package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/i474232898/climate-chart/internal/climate"
)

var (
	// ErrInvalidCanvas is returned for non-positive or non-finite canvas dimensions.
	ErrInvalidCanvas = errors.New("invalid canvas size")

	// ErrNonFiniteValue is returned when a series contains NaN or an infinity.
	ErrNonFiniteValue = errors.New("non-finite value in series")
)

// Layout constants, as fractions of the canvas or logical pixels.
const (
	sideMargin  = 0.025 // horizontal margin on each side
	plotWidth   = 0.95  // share of the width spread over the points
	baselineY   = 0.85  // y of the minimum value
	plotHeight  = 0.8   // vertical band used by the values
	gridTop     = 0.05
	gridBottom  = 0.9
	yearLabelY  = 0.97
	yearGlyphW  = 45 // assumed width of a year label
	yearSpacing = 3  // label footprint in glyph widths
	maxCallouts = 40 // callouts per series before thinning

	markerSize      = 4.0
	yearLabelShiftX = 18.0
	calloutOffsetX  = 16.0
	calloutOffsetY  = 30.0
	calloutWidth    = 34.0
	calloutHeight   = 24.0
	calloutTextX    = 8.0
	calloutTextY    = 12.0
)

// CanvasSize is the drawing area in logical pixels.
type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c CanvasSize) valid() bool {
	return c.Width > 0 && c.Height > 0 && !math.IsInf(c.Width, 0) && !math.IsInf(c.Height, 0)
}

// RenderPlan is a backend-agnostic, ordered list of drawing primitives.
// Primitives are drawn in order: gridlines and year labels, the polyline,
// then markers and callouts.
type RenderPlan struct {
	Size       CanvasSize  `json:"size"`
	StartYear  int         `json:"startYear"`
	Points     []Point     `json:"points"`
	YearGap    int         `json:"yearGap"`
	CaptionGap int         `json:"captionGap"`
	Primitives []Primitive `json:"primitives"`
}

// Empty reports whether the plan draws nothing.
func (p RenderPlan) Empty() bool {
	return len(p.Primitives) == 0
}

// YearGap returns the stride between year labels for n points on a canvas of
// the given width. It is always at least 1.
func YearGap(n int, width float64) int {
	capacity := width / (yearGlyphW * yearSpacing)
	if capacity <= 0 || math.IsNaN(capacity) {
		capacity = 1
	}
	gap := math.Floor(float64(n) / capacity)
	if gap < 1 || math.IsNaN(gap) {
		return 1
	}
	// Keeps the int conversion defined on absurdly narrow canvases.
	if gap > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(gap)
}

// CaptionGap returns the stride between value callouts for n points. It is
// always at least 1, so the first point is always annotated.
func CaptionGap(n int) int {
	gap := int(math.Ceil(float64(n) / maxCallouts))
	if gap < 1 {
		return 1
	}
	return gap
}

// Layout maps values, one per consecutive year from startYear, onto a canvas.
// An empty series produces an empty plan. A flat series is drawn on the
// baseline.
func Layout(size CanvasSize, values []float64, startYear int) (RenderPlan, error) {
	if !size.valid() {
		return RenderPlan{}, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, size.Width, size.Height)
	}

	n := len(values)
	plan := RenderPlan{
		Size:       size,
		StartYear:  startYear,
		Points:     []Point{},
		YearGap:    YearGap(n, size.Width),
		CaptionGap: CaptionGap(n),
		Primitives: []Primitive{},
	}
	if n == 0 {
		return plan, nil
	}

	minV, maxV := values[0], values[0]
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return RenderPlan{}, fmt.Errorf("%w: index %d", ErrNonFiniteValue, i)
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	w, h := size.Width, size.Height
	dx := w * plotWidth / float64(n+1)
	spread := maxV - minV

	// Halve before subtracting when the spread overflows.
	halved := math.IsInf(spread, 0)
	if halved {
		spread = maxV/2 - minV/2
	}

	points := make([]Point, n)
	for i, v := range values {
		y := h * baselineY
		if spread > 0 {
			offset := v - minV
			if halved {
				offset = v/2 - minV/2
			}
			y -= offset / spread * h * plotHeight
		}
		points[i] = Point{X: dx*float64(i+1) + w*sideMargin, Y: y}
	}
	plan.Points = points

	for i := 0; i < n; i += plan.YearGap {
		x := points[i].X
		plan.Primitives = append(plan.Primitives,
			Line{
				Kind:   KindLine,
				From:   Point{X: x, Y: h * gridTop},
				To:     Point{X: x, Y: h * gridBottom},
				Stroke: Stroke{Color: ColorGrid, Width: 1},
			},
			Text{
				Kind:   KindText,
				Origin: Point{X: x - yearLabelShiftX, Y: h * yearLabelY},
				Value:  strconv.Itoa(startYear + i),
				Font:   LabelFont,
				Fill:   ColorBlack,
			},
		)
	}

	plan.Primitives = append(plan.Primitives, Polyline{
		Kind:   KindPolyline,
		Points: points,
		Stroke: Stroke{Color: ColorBlack, Width: 1, Cap: CapRound, Join: JoinRound},
	})

	for i, p := range points {
		plan.Primitives = append(plan.Primitives, Marker{
			Kind:   KindMarker,
			Center: p,
			Size:   markerSize,
			Fill:   ColorValue,
		})
		if i%plan.CaptionGap != 0 {
			continue
		}
		plan.Primitives = append(plan.Primitives,
			Rect{
				Kind:   KindRect,
				Origin: Point{X: p.X - calloutOffsetX, Y: p.Y - calloutOffsetY},
				Width:  calloutWidth,
				Height: calloutHeight,
				Fill:   ColorCalloutBg,
			},
			Text{
				Kind:   KindText,
				Origin: Point{X: p.X - calloutTextX, Y: p.Y - calloutTextY},
				Value:  climate.FormatValue(values[i]),
				Font:   LabelFont,
				Fill:   ColorValue,
			},
		)
	}

	return plan, nil
}
