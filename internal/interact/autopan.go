package interact

import (
	"sync"
	"time"

	"github.com/alexanderramin/orgchart/internal/layout"
)

const (
	PanSpeed    = 25.0
	EdgePadding = 10.0
	PanInterval = 10 * time.Millisecond
)

// Viewport is the visible region of the chart in chart coordinates.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// PanVector reports which way the view should scroll when the pointer is
// within padding of an edge: -1 toward smaller coordinates, +1 toward larger,
// 0 when the pointer is clear of that axis' edges.
func PanVector(pointer layout.Point, vp Viewport, padding float64) (dx, dy int) {
	switch {
	case pointer.X <= vp.X+padding:
		dx = -1
	case pointer.X >= vp.X+vp.Width-padding:
		dx = 1
	}
	switch {
	case pointer.Y <= vp.Y+padding:
		dy = -1
	case pointer.Y >= vp.Y+vp.Height-padding:
		dy = 1
	}
	return dx, dy
}

// AutoPanner calls pan every interval while a direction is set. The callback
// runs on the panner's goroutine and receives the step in chart units.
type AutoPanner struct {
	interval time.Duration
	step     float64
	pan      func(dx, dy float64)

	mu     sync.Mutex
	dx, dy int
	stop   chan struct{}
}

// NewAutoPanner returns a stopped panner.
func NewAutoPanner(interval time.Duration, step float64, pan func(dx, dy float64)) *AutoPanner {
	return &AutoPanner{interval: interval, step: step, pan: pan}
}

// Update sets the pan direction. A non-zero direction starts the repeating pan
// if it is not already running; a zero direction stops it.
func (a *AutoPanner) Update(dx, dy int) {
	if dx == 0 && dy == 0 {
		a.Stop()
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.dx, a.dy = dx, dy
	if a.stop != nil {
		return
	}
	a.stop = make(chan struct{})
	go a.run(a.stop)
}

// Stop halts panning. At most one tick that was already being delivered may
// still reach the callback; Stop does not wait for it.
func (a *AutoPanner) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop == nil {
		return
	}
	close(a.stop)
	a.stop = nil
	a.dx, a.dy = 0, 0
}

// Running reports whether a pan loop is active.
func (a *AutoPanner) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

func (a *AutoPanner) run(stop chan struct{}) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.stop != stop {
				a.mu.Unlock()
				return
			}
			dx, dy := float64(a.dx)*a.step, float64(a.dy)*a.step
			a.mu.Unlock()
			a.pan(dx, dy)
		}
	}
}
