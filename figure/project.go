package figure

import "math"

type ItemKind int8

const (
	ItemPoint ItemKind = iota
	ItemLine
	ItemSegment
	ItemRay
	ItemCircle
)

type Label struct {
	Text string `json:"text"`
	At   Vec    `json:"at"`
}

// Item is one screen-space drawable. Which fields are meaningful depends on
// Kind: Pos/Dot for points, A/B for the line kinds, Pos/Radius for circles.
type Item struct {
	Kind   ItemKind `json:"kind"`
	Pos    Vec      `json:"pos,omitempty"`
	A      Vec      `json:"a,omitempty"`
	B      Vec      `json:"b,omitempty"`
	Radius float64  `json:"radius,omitempty"`
	Dot    bool     `json:"dot,omitempty"`
	Label  *Label   `json:"label,omitempty"`
}

type Projected struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Items  []Item  `json:"items"`
}

// Project maps a model-space figure onto a viewport of the given size. It is
// called once per rendered frame and produces its items fresh each time, so
// viewport resizes are handled by recomputation rather than cached layout.
func Project(fig Figure, flags Flags, width, height float64) Projected {
	out := Projected{Width: width, Height: height}
	if fig.Empty() || width <= 0 || height <= 0 {
		return out
	}

	tr := fitTransform(fig, flags, width, height)

	for _, p := range fig.Points {
		it := Item{Kind: ItemPoint, Pos: tr.apply(p.At), Dot: p.Dot && flags.ShowDots}
		if flags.ShowLabels && p.Label != "" {
			it.Label = &Label{Text: p.Label, At: it.Pos.Add(Vec{4, -6})}
		}
		out.Items = append(out.Items, it)
	}
	for _, ln := range fig.Lines {
		a, b := tr.apply(ln.A), tr.apply(ln.B)
		var kind ItemKind
		var ok bool
		switch ln.Kind {
		case Segment:
			kind, ok = ItemSegment, true
		case Ray:
			kind = ItemRay
			a, b, ok = clipRay(a, b, width, height)
		default:
			kind = ItemLine
			a, b, ok = clipLine(a, b, width, height)
		}
		if !ok {
			continue
		}
		it := Item{Kind: kind, A: a, B: b}
		if flags.ShowLabels && ln.Label != "" {
			mid := a.Add(b).Scale(0.5)
			it.Label = &Label{Text: ln.Label, At: mid.Add(Vec{4, -6})}
		}
		out.Items = append(out.Items, it)
	}
	for _, c := range fig.Circles {
		it := Item{Kind: ItemCircle, Pos: tr.apply(c.Center), Radius: c.Radius * tr.scale}
		if flags.ShowLabels && c.Label != "" {
			it.Label = &Label{Text: c.Label, At: it.Pos.Add(Vec{0, -it.Radius - 6})}
		}
		out.Items = append(out.Items, it)
	}
	return out
}

type transform struct {
	scale      float64
	minX, minY float64
	offX, offY float64
	height     float64
}

// apply maps model space to screen space, flipping y so model-up is screen-up.
func (t transform) apply(v Vec) Vec {
	return Vec{
		X: (v.X-t.minX)*t.scale + t.offX,
		Y: t.height - ((v.Y-t.minY)*t.scale + t.offY),
	}
}

func fitTransform(fig Figure, flags Flags, width, height float64) transform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(v Vec) {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	for _, p := range fig.Points {
		grow(p.At)
	}
	for _, ln := range fig.Lines {
		grow(ln.A)
		grow(ln.B)
	}
	for _, c := range fig.Circles {
		grow(c.Center.Add(Vec{c.Radius, c.Radius}))
		grow(c.Center.Sub(Vec{c.Radius, c.Radius}))
	}

	spanX, spanY := maxX-minX, maxY-minY
	margin := flags.Margin
	if margin < 0 || margin >= 0.5 {
		margin = 0.1
	}
	innerW, innerH := width*(1-2*margin), height*(1-2*margin)
	scale := 1.0
	if spanX > 0 || spanY > 0 {
		scale = math.Min(safeDiv(innerW, spanX), safeDiv(innerH, spanY))
	}
	return transform{
		scale:  scale,
		minX:   minX,
		minY:   minY,
		offX:   (width - spanX*scale) / 2,
		offY:   (height - spanY*scale) / 2,
		height: height,
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return a / b
}

// clipLine extends the carrier through a and b to the viewport border.
func clipLine(a, b Vec, width, height float64) (Vec, Vec, bool) {
	return clipParam(a, b.Sub(a), math.Inf(-1), math.Inf(1), width, height)
}

// clipRay keeps only the half-line starting at a towards b.
func clipRay(a, b Vec, width, height float64) (Vec, Vec, bool) {
	return clipParam(a, b.Sub(a), 0, math.Inf(1), width, height)
}

// clipParam clips p + t*d for t in [tMin, tMax] against the viewport
// rectangle (Liang-Barsky).
func clipParam(p, d Vec, tMin, tMax, width, height float64) (Vec, Vec, bool) {
	if d.X == 0 && d.Y == 0 {
		return Vec{}, Vec{}, false
	}
	t0, t1 := tMin, tMax
	edges := []struct{ num, den float64 }{
		{p.X, -d.X},         // left
		{width - p.X, d.X},  // right
		{p.Y, -d.Y},         // top
		{height - p.Y, d.Y}, // bottom
	}
	for _, e := range edges {
		if e.den == 0 {
			if e.num < 0 {
				return Vec{}, Vec{}, false
			}
			continue
		}
		t := e.num / e.den
		if e.den < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
	}
	if t0 > t1 {
		return Vec{}, Vec{}, false
	}
	return p.Add(d.Scale(t0)), p.Add(d.Scale(t1)), true
}
