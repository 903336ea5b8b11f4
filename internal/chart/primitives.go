package chart

import (
	"fmt"
)

// Kind tags a drawing primitive in serialized plans.
type Kind string

const (
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindRect     Kind = "rect"
	KindText     Kind = "text"
	KindMarker   Kind = "marker"
)

// Point is a position in logical canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is a non-premultiplied RGBA color. It implements color.Color and
// serializes as "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 0xff
	g = uint32(c.G) * a / 0xff
	b = uint32(c.B) * a / 0xff
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	var r, g, bl, a uint8
	if _, err := fmt.Sscanf(string(b), "#%02x%02x%02x%02x", &r, &g, &bl, &a); err != nil {
		return fmt.Errorf("invalid color %q: %w", b, err)
	}
	*c = Color{R: r, G: g, B: bl, A: a}
	return nil
}

// Palette used by the layout.
var (
	ColorBlack     = Color{0x00, 0x00, 0x00, 0xff}
	ColorGrid      = Color{0xcc, 0xcc, 0xcc, 0xff}
	ColorValue     = Color{0x00, 0x00, 0xff, 0xff}
	ColorCalloutBg = Color{222, 222, 222, 102} // rgba(222, 222, 222, 0.4)
)

// Font describes a text face by family and size in logical pixels.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// LabelFont is used for year labels and value callouts.
var LabelFont = Font{Family: "Arial", Size: 16}

// LineCap and LineJoin styles for strokes.
type LineCap string
type LineJoin string

const (
	CapButt   LineCap  = "butt"
	CapRound  LineCap  = "round"
	JoinBevel LineJoin = "bevel"
	JoinRound LineJoin = "round"
)

// Stroke describes how a path is outlined.
type Stroke struct {
	Color Color    `json:"color"`
	Width float64  `json:"width"`
	Cap   LineCap  `json:"cap,omitempty"`
	Join  LineJoin `json:"join,omitempty"`
}

// Primitive is one drawing instruction of a RenderPlan. The concrete types
// are Line, Polyline, Rect, Text and Marker.
type Primitive interface {
	PrimitiveKind() Kind
}

// Line is a straight stroked segment.
type Line struct {
	Kind   Kind   `json:"kind"`
	From   Point  `json:"from"`
	To     Point  `json:"to"`
	Stroke Stroke `json:"stroke"`
}

// Polyline is a single open stroked path through Points in order.
type Polyline struct {
	Kind   Kind    `json:"kind"`
	Points []Point `json:"points"`
	Stroke Stroke  `json:"stroke"`
}

// Rect is a filled axis-aligned rectangle with its top-left corner at Origin.
type Rect struct {
	Kind   Kind    `json:"kind"`
	Origin Point   `json:"origin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   Color   `json:"fill"`
}

// Text is a filled string whose baseline starts at Origin.
type Text struct {
	Kind   Kind   `json:"kind"`
	Origin Point  `json:"origin"`
	Value  string `json:"value"`
	Font   Font   `json:"font"`
	Fill   Color  `json:"fill"`
}

// Marker is a filled square of side Size centered on a data point.
type Marker struct {
	Kind   Kind    `json:"kind"`
	Center Point   `json:"center"`
	Size   float64 `json:"size"`
	Fill   Color   `json:"fill"`
}

func (Line) PrimitiveKind() Kind     { return KindLine }
func (Polyline) PrimitiveKind() Kind { return KindPolyline }
func (Rect) PrimitiveKind() Kind     { return KindRect }
func (Text) PrimitiveKind() Kind     { return KindText }
func (Marker) PrimitiveKind() Kind   { return KindMarker }

// Bounds returns the top-left corner of the marker square.
func (m Marker) Bounds() (x, y, w, h float64) {
	half := m.Size / 2
	return m.Center.X - half, m.Center.Y - half, m.Size, m.Size
}
