// Package layout assigns chart coordinates to every office in a tree.
//
// Leaves are placed left to right in pre-order, each parent is centered over
// its first and last child, and rows are stacked by depth using the tallest
// box of each row.
package layout

import (
	"math"

	"github.com/alexanderramin/orgchart/internal/domain"
)

const (
	NodeWidth      = 500.0
	NodeHalfWidth  = NodeWidth / 2
	BaseHeight     = 150.0
	PositionHeight = 30.0

	// HorizontalGap separates sibling boxes; VerticalGap separates rows.
	HorizontalGap = 100.0
	VerticalGap   = 120.0
)

// Point is a location in chart space.
type Point struct {
	X float64
	Y float64
}

// Box is the rendered rectangle of one office. X and Y are the top-left corner.
type Box struct {
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Depth  int
}

// Anchor is the top-center of the box. Drop targeting measures distance
// between anchors.
func (b Box) Anchor() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y}
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Layout holds the boxes of one tree, keyed by office name.
type Layout struct {
	boxes map[string]Box
	order []string
}

// NodeSize returns the box size for an office: fixed width, height growing
// with the number of positions listed inside it.
func NodeSize(n *domain.Node) (width, height float64) {
	return NodeWidth, BaseHeight + PositionHeight*float64(len(n.Positions))
}

// Compute lays out the tree rooted at root.
func Compute(root *domain.Node) *Layout {
	l := &Layout{boxes: make(map[string]Box)}
	if root == nil {
		return l
	}

	var rowHeights []float64
	root.Walk(func(n, _ *domain.Node, depth int) bool {
		_, h := NodeSize(n)
		if depth >= len(rowHeights) {
			rowHeights = append(rowHeights, 0)
		}
		rowHeights[depth] = math.Max(rowHeights[depth], h)
		return true
	})

	rowTop := make([]float64, len(rowHeights))
	for i := 1; i < len(rowHeights); i++ {
		rowTop[i] = rowTop[i-1] + rowHeights[i-1] + VerticalGap
	}

	next := 0.0
	var place func(n *domain.Node, depth int) float64
	place = func(n *domain.Node, depth int) float64 {
		l.order = append(l.order, n.Name)
		w, h := NodeSize(n)

		var center float64
		if len(n.Children) == 0 {
			center = next + w/2
			next += w + HorizontalGap
		} else {
			first := place(n.Children[0], depth+1)
			last := first
			for _, c := range n.Children[1:] {
				last = place(c, depth+1)
			}
			center = (first + last) / 2
		}

		l.boxes[n.Name] = Box{
			Name:   n.Name,
			X:      center - w/2,
			Y:      rowTop[depth],
			Width:  w,
			Height: h,
			Depth:  depth,
		}
		return center
	}
	place(root, 0)
	return l
}

// Box returns the box of the named office.
func (l *Layout) Box(name string) (Box, bool) {
	b, ok := l.boxes[name]
	return b, ok
}

// Boxes returns every box in pre-order.
func (l *Layout) Boxes() []Box {
	out := make([]Box, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.boxes[name])
	}
	return out
}

func (l *Layout) Len() int { return len(l.order) }

// Bounds returns the rectangle enclosing every box. An empty layout has a zero
// rectangle.
func (l *Layout) Bounds() Rect {
	if len(l.order) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, b := range l.boxes {
		r.MinX = math.Min(r.MinX, b.X)
		r.MinY = math.Min(r.MinY, b.Y)
		r.MaxX = math.Max(r.MaxX, b.X+b.Width)
		r.MaxY = math.Max(r.MaxY, b.Y+b.Height)
	}
	return r
}

// At returns the office whose box contains p, preferring the deepest match.
func (l *Layout) At(p Point) (string, bool) {
	found, depth := "", -1
	for _, name := range l.order {
		b := l.boxes[name]
		if b.Contains(p) && b.Depth > depth {
			found, depth = name, b.Depth
		}
	}
	return found, depth >= 0
}
