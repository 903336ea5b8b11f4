package chart

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

// epsilon for float comparisons
const eps = 1e-9

func primitivesOf[T Primitive](plan RenderPlan) []T {
	var out []T
	for _, p := range plan.Primitives {
		if v, ok := p.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestLayout_Empty(t *testing.T) {
	plan, err := Layout(CanvasSize{Width: 200, Height: 100}, nil, 1990)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Empty() || len(plan.Points) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
	if plan.YearGap < 1 || plan.CaptionGap < 1 {
		t.Fatalf("gaps must be >= 1, got yearGap=%d captionGap=%d", plan.YearGap, plan.CaptionGap)
	}
}

// TestLayout_Example reproduces the 200x100 canvas with three values.
func TestLayout_Example(t *testing.T) {
	plan, err := Layout(CanvasSize{Width: 200, Height: 100}, []float64{0, 10, 20}, 1990)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(plan.Points))
	}

	// dx = 200*0.95/4 = 47.5, margin 5
	wantX := []float64{52.5, 100, 147.5}
	wantY := []float64{85, 45, 5}
	for i, p := range plan.Points {
		if math.Abs(p.X-wantX[i]) > eps || math.Abs(p.Y-wantY[i]) > eps {
			t.Errorf("point %d: got (%v, %v), want (%v, %v)", i, p.X, p.Y, wantX[i], wantY[i])
		}
		if p.X < 5 || p.X > 195 {
			t.Errorf("point %d x=%v outside [5, 195]", i, p.X)
		}
	}

	labels := yearLabels(plan)
	if len(labels) == 0 || labels[0] != "1990" {
		t.Fatalf("expected a year label for index 0, got %v", labels)
	}
	if plan.YearGap != 2 {
		t.Errorf("expected yearGap 2 (capacity 200/135), got %d", plan.YearGap)
	}
	if len(labels) != 2 || labels[1] != "1992" {
		t.Errorf("expected labels [1990 1992], got %v", labels)
	}

	lines := primitivesOf[Line](plan)
	if len(lines) != 2 {
		t.Fatalf("expected 2 gridlines, got %d", len(lines))
	}
	if math.Abs(lines[0].From.Y-5) > eps || math.Abs(lines[0].To.Y-90) > eps || lines[0].From.X != plan.Points[0].X {
		t.Errorf("unexpected gridline geometry: %+v", lines[0])
	}
}

func TestLayout_FlatSeries(t *testing.T) {
	for _, values := range [][]float64{{7.5}, {3, 3, 3, 3}} {
		plan, err := Layout(CanvasSize{Width: 640, Height: 480}, values, 1900)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, p := range plan.Points {
			if math.Abs(p.Y-480*0.85) > eps {
				t.Fatalf("values %v point %d: expected y=%v, got %v", values, i, 480*0.85, p.Y)
			}
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				t.Fatalf("NaN coordinate at %d", i)
			}
		}
	}
}

func TestLayout_XStrictlyIncreasingWithinMargins(t *testing.T) {
	for _, w := range []float64{1, 45, 200, 1280, 3840} {
		for _, n := range []int{1, 2, 39, 40, 41, 126, 500} {
			values := make([]float64, n)
			for i := range values {
				values[i] = math.Sin(float64(i))
			}
			plan, err := Layout(CanvasSize{Width: w, Height: 300}, values, 1881)
			if err != nil {
				t.Fatalf("w=%v n=%d: unexpected error: %v", w, n, err)
			}
			for i, p := range plan.Points {
				if p.X < w*0.025-eps || p.X > w*0.975+eps {
					t.Fatalf("w=%v n=%d: x[%d]=%v outside margins", w, n, i, p.X)
				}
				if i > 0 && p.X <= plan.Points[i-1].X {
					t.Fatalf("w=%v n=%d: x not strictly increasing at %d", w, n, i)
				}
				if p.Y < 300*0.05-eps || p.Y > 300*0.85+eps {
					t.Fatalf("w=%v n=%d: y[%d]=%v outside the value band", w, n, i, p.Y)
				}
			}
		}
	}
}

func TestYearGapAndCaptionGap(t *testing.T) {
	for _, n := range []int{0, 1, 2, 40, 41, 80, 81, 126, 10000} {
		for _, w := range []float64{0, 1, 134, 135, 1000, 1e9} {
			if g := YearGap(n, w); g < 1 {
				t.Fatalf("YearGap(%d, %v) = %d", n, w, g)
			}
		}
		if g := CaptionGap(n); g < 1 {
			t.Fatalf("CaptionGap(%d) = %d", n, g)
		}
	}

	// 126 years on 1350px: capacity 10 labels, one every 12 years
	if g := YearGap(126, 1350); g != 12 {
		t.Errorf("YearGap(126, 1350) = %d; want 12", g)
	}
	// the gap follows floor(n/capacity) even past n
	if g := YearGap(3, 10); g != 40 {
		t.Errorf("YearGap(3, 10) = %d; want 40", g)
	}
	if g := CaptionGap(40); g != 1 {
		t.Errorf("CaptionGap(40) = %d; want 1", g)
	}
	if g := CaptionGap(41); g != 2 {
		t.Errorf("CaptionGap(41) = %d; want 2", g)
	}
	if g := CaptionGap(126); g != 4 {
		t.Errorf("CaptionGap(126) = %d; want 4", g)
	}
}

func TestLayout_MarkersAndCallouts(t *testing.T) {
	values := make([]float64, 126)
	for i := range values {
		values[i] = float64(i%7) + 0.25
	}

	plan, err := Layout(CanvasSize{Width: 1350, Height: 800}, values, 1881)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	markers := primitivesOf[Marker](plan)
	if len(markers) != len(values) {
		t.Fatalf("expected %d markers, got %d", len(values), len(markers))
	}
	x, y, w, h := markers[3].Bounds()
	if x != plan.Points[3].X-2 || y != plan.Points[3].Y-2 || w != 4 || h != 4 {
		t.Errorf("unexpected marker bounds (%v, %v, %v, %v)", x, y, w, h)
	}

	rects := primitivesOf[Rect](plan)
	if len(rects) != 32 { // indices 0, 4, ..., 124
		t.Fatalf("expected 32 callouts, got %d", len(rects))
	}
	if rects[1].Origin.X != plan.Points[4].X-16 || rects[1].Origin.Y != plan.Points[4].Y-30 {
		t.Errorf("callout 1 not anchored to point 4: %+v", rects[1])
	}
	if rects[0].Fill != ColorCalloutBg {
		t.Errorf("unexpected callout fill %v", rects[0].Fill)
	}

	var callouts []Text
	for _, txt := range primitivesOf[Text](plan) {
		if txt.Fill == ColorValue {
			callouts = append(callouts, txt)
		}
	}
	if len(callouts) != 32 {
		t.Fatalf("expected 32 value labels, got %d", len(callouts))
	}
	if callouts[1].Value != "4.3" { // values[4] = 4.25
		t.Errorf("expected value label 4.3, got %q", callouts[1].Value)
	}

	polylines := primitivesOf[Polyline](plan)
	if len(polylines) != 1 || len(polylines[0].Points) != len(values) {
		t.Fatalf("expected one polyline through every point")
	}
}

func TestLayout_DrawOrder(t *testing.T) {
	plan, err := Layout(CanvasSize{Width: 800, Height: 400}, []float64{1, 2, 3, 4}, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seenPolyline := false
	for _, p := range plan.Primitives {
		switch p.PrimitiveKind() {
		case KindPolyline:
			seenPolyline = true
		case KindLine:
			if seenPolyline {
				t.Fatal("gridlines must be drawn before the polyline")
			}
		case KindMarker, KindRect:
			if !seenPolyline {
				t.Fatal("markers and callouts must be drawn after the polyline")
			}
		}
	}
}

func TestLayout_Errors(t *testing.T) {
	for _, size := range []CanvasSize{{0, 100}, {100, -1}, {math.NaN(), 100}, {math.Inf(1), 100}} {
		if _, err := Layout(size, []float64{1, 2}, 1900); !errors.Is(err, ErrInvalidCanvas) {
			t.Errorf("size %+v: expected ErrInvalidCanvas, got %v", size, err)
		}
	}
	if _, err := Layout(CanvasSize{100, 100}, []float64{1, math.NaN()}, 1900); !errors.Is(err, ErrNonFiniteValue) {
		t.Errorf("expected ErrNonFiniteValue, got %v", err)
	}
}

func TestLayout_HugeSpreadStaysFinite(t *testing.T) {
	plan, err := Layout(CanvasSize{100, 100}, []float64{-math.MaxFloat64, 0, math.MaxFloat64}, 1900)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{85, 45, 5}
	for i, p := range plan.Points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) || math.Abs(p.Y-want[i]) > 1e-6 {
			t.Fatalf("point %d: y=%v, want %v", i, p.Y, want[i])
		}
	}
}

func TestLayout_HugeValueCalloutIsFinite(t *testing.T) {
	plan, err := Layout(CanvasSize{200, 100}, []float64{0, 1e308}, 1900)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, txt := range primitivesOf[Text](plan) {
		if strings.Contains(txt.Value, "Inf") || strings.Contains(txt.Value, "NaN") {
			t.Fatalf("non-finite text %q", txt.Value)
		}
	}
}

func TestRenderPlan_JSON(t *testing.T) {
	plan, err := Layout(CanvasSize{Width: 200, Height: 100}, []float64{0, 10, 20}, 1990)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	for _, want := range []string{`"kind":"polyline"`, `"kind":"marker"`, `"color":"#ccccccff"`, `"fill":"#dedede66"`, `"value":"20.0"`} {
		if !strings.Contains(out, want) {
			t.Errorf("plan JSON missing %s", want)
		}
	}

	var c Color
	if err := c.UnmarshalText([]byte("#0000ffff")); err != nil || c != ColorValue {
		t.Errorf("UnmarshalText = %v, %v", c, err)
	}
}

func TestFitViewport(t *testing.T) {
	got := FitViewport(1000, 1280, 120)
	if got.Width != 1280 || got.Height != 800 {
		t.Errorf("tall viewport: got %+v", got)
	}
	got = FitViewport(600, 1024, 100)
	if got.Width != 1024 || got.Height != 484 {
		t.Errorf("short viewport: got %+v", got)
	}
}

func yearLabels(plan RenderPlan) []string {
	var out []string
	for _, txt := range primitivesOf[Text](plan) {
		if txt.Fill == ColorBlack {
			out = append(out, txt.Value)
		}
	}
	return out
}
