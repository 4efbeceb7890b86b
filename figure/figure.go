package figure

import "math"

type LineKind int8

const (
	FullLine LineKind = iota
	Segment
	Ray
)

func (k LineKind) String() string {
	switch k {
	case FullLine:
		return "line"
	case Segment:
		return "segment"
	case Ray:
		return "ray"
	}
	return "unknown"
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec      { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec      { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64       { return math.Hypot(v.X, v.Y) }

func Dist(a, b Vec) float64 { return a.Sub(b).Len() }

// Angle returns the angle at b formed by the rays b->a and b->c, in radians.
func Angle(a, b, c Vec) float64 {
	u, w := a.Sub(b), c.Sub(b)
	lu, lw := u.Len(), w.Len()
	if lu == 0 || lw == 0 {
		return 0
	}
	cos := (u.X*w.X + u.Y*w.Y) / (lu * lw)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// Flags is the immutable per-session configuration shared by the optimizer
// and the projector. It is created once from the loaded problem definition.
type Flags struct {
	ShowDots   bool
	ShowLabels bool
	Margin     float64
}

func DefaultFlags() Flags {
	return Flags{ShowDots: true, ShowLabels: true, Margin: 0.1}
}

type Point struct {
	Label string `json:"label,omitempty"`
	At    Vec    `json:"at"`
	Dot   bool   `json:"dot"`
}

// Line holds resolved model-space anchor points. For FullLine and Ray the
// anchors define the carrier, not the drawn extent.
type Line struct {
	Kind  LineKind `json:"kind"`
	A     Vec      `json:"a"`
	B     Vec      `json:"b"`
	Label string   `json:"label,omitempty"`
}

type Circle struct {
	Center Vec     `json:"center"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label,omitempty"`
}

// Figure is the abstract, resolution-independent geometric model. A zero
// Figure is valid and renders as an empty canvas.
type Figure struct {
	Points  []Point  `json:"points"`
	Lines   []Line   `json:"lines"`
	Circles []Circle `json:"circles"`
}

// Clone deep-copies the figure so a reader can release the hand-off lock
// before doing any work with it.
func (f Figure) Clone() Figure {
	out := Figure{}
	if f.Points != nil {
		out.Points = make([]Point, len(f.Points))
		copy(out.Points, f.Points)
	}
	if f.Lines != nil {
		out.Lines = make([]Line, len(f.Lines))
		copy(out.Lines, f.Lines)
	}
	if f.Circles != nil {
		out.Circles = make([]Circle, len(f.Circles))
		copy(out.Circles, f.Circles)
	}
	return out
}

func (f Figure) Empty() bool {
	return len(f.Points) == 0 && len(f.Lines) == 0 && len(f.Circles) == 0
}
