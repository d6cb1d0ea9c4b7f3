// Package editor owns the live organization tree and applies drag-and-drop
// edits to it, recording them for undo/redo and forwarding them to the
// persistence mirror.
package editor

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/history"
	"github.com/alexanderramin/orgchart/internal/interact"
	"github.com/alexanderramin/orgchart/internal/layout"
	"github.com/alexanderramin/orgchart/internal/mirror"
)

// Mode selects what a drop onto a non-root office does.
type Mode string

const (
	ModeSwap Mode = "Swap"
	ModeMove Mode = "Move"
)

// ParseMode accepts "swap" or "move" in any case.
func ParseMode(s string) (Mode, error) {
	switch {
	case strings.EqualFold(s, string(ModeSwap)):
		return ModeSwap, nil
	case strings.EqualFold(s, string(ModeMove)):
		return ModeMove, nil
	}
	return "", fmt.Errorf("invalid mode %q (want Swap or Move)", s)
}

// Poster accepts mirror requests without blocking.
type Poster interface {
	Post(req mirror.Request)
}

type discard struct{}

func (discard) Post(mirror.Request) {}

// Editor is the single owner of the live tree. It is not safe for concurrent
// use.
type Editor struct {
	root    *domain.Node
	layout  *layout.Layout
	mode    Mode
	history *history.History
	mirror  Poster
	logger  *slog.Logger
}

// New returns an editor with an empty tree in Swap mode. A nil poster or
// logger disables mirroring or logging respectively.
func New(poster Poster, logger *slog.Logger) *Editor {
	if poster == nil {
		poster = discard{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{
		layout:  layout.Compute(nil),
		mode:    ModeSwap,
		history: history.New(),
		mirror:  poster,
		logger:  logger.With("component", "editor"),
	}
}

// Load replaces the live tree, typically with one reconstructed by the mirror.
// History is cleared because its records name offices of the previous tree.
func (e *Editor) Load(root *domain.Node) {
	e.root = root
	e.history.Clear()
	e.relayout()
}

func (e *Editor) Root() *domain.Node { return e.root }
func (e *Editor) Layout() *layout.Layout { return e.layout }
func (e *Editor) Mode() Mode { return e.mode }
func (e *Editor) SetMode(m Mode) { e.mode = m }
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }
func (e *Editor) History() *history.History { return e.history }

// ToggleMode flips between Swap and Move and returns the new mode.
func (e *Editor) ToggleMode() Mode {
	if e.mode == ModeMove {
		e.mode = ModeSwap
	} else {
		e.mode = ModeMove
	}
	return e.mode
}

// Release applies the outcome of a finished drag. A cancelled drop only
// restores the layout.
func (e *Editor) Release(res interact.DropResult) (bool, error) {
	if res.Cancelled {
		e.relayout()
		return false, nil
	}
	return e.Drop(res.Dragged, res.Target)
}

// Drop applies a drop of dragged onto target. In Move mode, or when target is
// the root, dragged is relocated under target; otherwise the two swap places.
// It reports whether the tree changed. The layout is recomputed either way.
func (e *Editor) Drop(dragged, target string) (bool, error) {
	defer e.relayout()
	if e.root == nil {
		return false, nil
	}

	kind := history.KindSwap
	if e.mode == ModeMove || target == e.root.Name {
		kind = history.KindRelocate
	}

	rec, effects, err := history.Apply(e.root, history.Record{Kind: kind, Node: dragged, Target: target})
	if err != nil {
		e.logger.Error("drop failed", "dragged", dragged, "target", target, "kind", kind, "error", err)
		return false, fmt.Errorf("dropping %q onto %q: %w", dragged, target, err)
	}
	if len(effects) == 0 {
		return false, nil
	}

	e.history.Push(rec)
	e.post(effects)
	e.logger.Debug("drop applied", "dragged", dragged, "target", target, "kind", kind)
	return true, nil
}

// Undo reverts the most recent edit. It is a no-op on an empty stack.
func (e *Editor) Undo() (bool, error) {
	rec, ok := e.history.PopUndo()
	if !ok || e.root == nil {
		return false, nil
	}
	defer e.relayout()

	effects, err := history.Revert(e.root, rec)
	e.post(effects)
	if err != nil {
		e.logger.Error("undo failed", "kind", rec.Kind, "node", rec.Node, "error", err)
		return false, fmt.Errorf("undoing %s of %q: %w", rec.Kind, rec.Node, err)
	}
	e.history.PushRedo(rec)
	return true, nil
}

// Redo re-applies the most recently undone edit. It is a no-op on an empty
// stack.
func (e *Editor) Redo() (bool, error) {
	rec, ok := e.history.PopRedo()
	if !ok || e.root == nil {
		return false, nil
	}
	defer e.relayout()

	done, effects, err := history.Apply(e.root, history.Record{Kind: rec.Kind, Node: rec.Node, Target: rec.Target})
	if err != nil {
		e.logger.Error("redo failed", "kind", rec.Kind, "node", rec.Node, "error", err)
		return false, fmt.Errorf("redoing %s of %q: %w", rec.Kind, rec.Node, err)
	}
	e.post(effects)
	e.history.PushUndo(done)
	return true, nil
}

func (e *Editor) post(effects []history.Effect) {
	for _, ef := range effects {
		switch ef.Kind {
		case history.KindRelocate:
			e.mirror.Post(mirror.MoveRequest(ef.Dragged, ef.Target, ef.Descendants))
		case history.KindSwap:
			e.mirror.Post(mirror.SwapRequest(ef.Dragged, ef.Target))
		}
	}
}

func (e *Editor) relayout() {
	e.layout = layout.Compute(e.root)
}
