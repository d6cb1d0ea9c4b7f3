// Package interact turns pointer movement over a laid-out chart into drop
// targets and edge auto-panning.
package interact

import (
	"math"

	"github.com/alexanderramin/orgchart/internal/layout"
)

// MaxDistance is the farthest a drop may land from its target's anchor.
const MaxDistance = 1000.0

// Distance is the Euclidean distance between two chart points.
func Distance(a, b layout.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Nearest returns the office whose anchor is closest to p, skipping exclude.
// ok is false when the layout has no other office.
func Nearest(l *layout.Layout, p layout.Point, exclude string) (name string, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, b := range l.Boxes() {
		if b.Name == exclude {
			continue
		}
		if d := Distance(p, b.Anchor()); d < dist {
			name, dist, ok = b.Name, d, true
		}
	}
	return name, dist, ok
}

// DropResult is the outcome of releasing a dragged office.
type DropResult struct {
	Dragged   string
	Target    string
	Cancelled bool
}

// Drag tracks one drag session over a fixed layout. The layout is the one
// rendered when the drag began; the dragged office's own box stays at its
// pre-drag position so releasing near the origin cancels.
type Drag struct {
	layout      *layout.Layout
	root        string
	maxDistance float64

	active    bool
	dragged   string
	pos       layout.Point
	candidate string
}

// NewDrag prepares a drag session. A maxDistance <= 0 uses MaxDistance.
func NewDrag(l *layout.Layout, root string, maxDistance float64) *Drag {
	if maxDistance <= 0 {
		maxDistance = MaxDistance
	}
	return &Drag{layout: l, root: root, maxDistance: maxDistance}
}

// Begin picks up the named office at its anchor. The root and unknown names
// are refused.
func (d *Drag) Begin(name string) bool {
	if name == d.root {
		return false
	}
	b, ok := d.layout.Box(name)
	if !ok {
		return false
	}
	d.active = true
	d.dragged = name
	d.pos = b.Anchor()
	d.candidate = ""
	return true
}

// MoveTo places the dragged office at p and returns the current drop candidate.
func (d *Drag) MoveTo(p layout.Point) (string, bool) {
	if !d.active {
		return "", false
	}
	d.pos = p
	d.candidate = ""
	if name, dist, ok := Nearest(d.layout, p, d.dragged); ok && dist < d.maxDistance {
		d.candidate = name
	}
	return d.Candidate()
}

// MoveBy shifts the dragged office by a delta.
func (d *Drag) MoveBy(dx, dy float64) (string, bool) {
	return d.MoveTo(layout.Point{X: d.pos.X + dx, Y: d.pos.Y + dy})
}

// Candidate is the office currently highlighted as drop target.
func (d *Drag) Candidate() (string, bool) {
	return d.candidate, d.candidate != ""
}

func (d *Drag) Active() bool           { return d.active }
func (d *Drag) Dragged() string        { return d.dragged }
func (d *Drag) Position() layout.Point { return d.pos }

// Drop ends the session. The target is recomputed with the dragged office
// included, so a release closest to its own origin or farther than the limit
// from everything is cancelled.
func (d *Drag) Drop() DropResult {
	if !d.active {
		return DropResult{Cancelled: true}
	}
	res := DropResult{Dragged: d.dragged, Cancelled: true}
	if name, dist, ok := Nearest(d.layout, d.pos, ""); ok && dist < d.maxDistance && name != d.dragged {
		res.Target = name
		res.Cancelled = false
	}
	d.reset()
	return res
}

// Cancel ends the session without a drop.
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.active = false
	d.dragged = ""
	d.candidate = ""
}
