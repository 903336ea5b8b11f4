package chart

import "math"

const (
	// MaxCanvasHeight caps the chart height on tall viewports.
	MaxCanvasHeight = 800
	// BottomPadding is kept free below the canvas.
	BottomPadding = 16
)

// FitViewport sizes the canvas for a page whose header spans the chart width:
// the canvas is as wide as the header and fills the remaining viewport height
// up to MaxCanvasHeight.
func FitViewport(viewportHeight, headerWidth, headerHeight float64) CanvasSize {
	return CanvasSize{
		Width:  headerWidth,
		Height: math.Min(viewportHeight-headerHeight-BottomPadding, MaxCanvasHeight),
	}
}
