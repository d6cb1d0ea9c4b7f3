// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and the returned commands are run and fed back
// until nothing is left. Commands that wait on channels or timers (response
// pumps, cursor blinks, auto-pan ticks) are given a short deadline and dropped
// when they miss it, so tests deliver those messages themselves with Send.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained commands one Send may run.
const MaxDrainDepth = 100

// cmdTimeout separates commands that compute a message from commands that
// wait for one.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been returned.
	Quitting bool

	// Width and Height are the last size sent with Resize or WithSize.
	Width, Height int
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Resize(w, h)
	}
}

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and every message it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting commands.
// Messages sent after the model quit are ignored.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Resize sends a WindowSizeMsg.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Width, d.Height = w, h
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

// ── keyboard ─────────────────────────────────────────────────────────────────

// SendKey sends a key of the given type, such as tea.KeyEnter.
func (d *Driver) SendKey(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// SendKeys sends each key type in turn.
func (d *Driver) SendKeys(keys ...tea.KeyType) {
	d.T.Helper()
	for _, k := range keys {
		d.SendKey(k)
	}
}

// PressKey sends a printable rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Repeat presses r n times.
func (d *Driver) Repeat(r rune, n int) {
	d.T.Helper()
	for i := 0; i < n; i++ {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.SendKey(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.SendKey(tea.KeyEsc) }
func (d *Driver) PressTab()   { d.T.Helper(); d.SendKey(tea.KeyTab) }
func (d *Driver) PressSpace() { d.T.Helper(); d.SendKey(tea.KeySpace) }
func (d *Driver) PressUp()    { d.T.Helper(); d.SendKey(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.SendKey(tea.KeyDown) }
func (d *Driver) PressLeft()  { d.T.Helper(); d.SendKey(tea.KeyLeft) }
func (d *Driver) PressRight() { d.T.Helper(); d.SendKey(tea.KeyRight) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ── mouse ────────────────────────────────────────────────────────────────────

// MouseDown presses the left button at a terminal cell.
func (d *Driver) MouseDown(x, y int) {
	d.T.Helper()
	d.mouse(tea.MouseButtonLeft, tea.MouseActionPress, x, y)
}

// MouseMove moves the pointer with the left button held.
func (d *Driver) MouseMove(x, y int) {
	d.T.Helper()
	d.mouse(tea.MouseButtonLeft, tea.MouseActionMotion, x, y)
}

// MouseUp releases the left button.
func (d *Driver) MouseUp(x, y int) {
	d.T.Helper()
	d.mouse(tea.MouseButtonLeft, tea.MouseActionRelease, x, y)
}

// DragMouse presses at (x0, y0), moves to (x1, y1) and releases there.
func (d *Driver) DragMouse(x0, y0, x1, y1 int) {
	d.T.Helper()
	d.MouseDown(x0, y0)
	d.MouseMove(x1, y1)
	d.MouseUp(x1, y1)
}

// Wheel scrolls once with the given wheel button.
func (d *Driver) Wheel(button tea.MouseButton) {
	d.T.Helper()
	d.mouse(button, tea.MouseActionPress, 0, 0)
}

func (d *Driver) mouse(button tea.MouseButton, action tea.MouseAction, x, y int) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Button: button, Action: action})
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── command draining ─────────────────────────────────────────────────────────

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := run(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}
	if isBlink(msg) {
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

// run calls cmd on its own goroutine and gives up after cmdTimeout. A command
// that misses the deadline leaks its goroutine until whatever it waits on
// fires.
func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages from bubbles.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
