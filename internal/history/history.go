// Package history keeps the linear undo/redo record of structural edits made
// to the organization tree.
package history

// Kind names the structural edit a Record describes.
type Kind string

const (
	KindRelocate Kind = "MOVE"
	KindSwap     Kind = "SWAP"
)

// Slot is a child's name and its sibling index at the time it was captured.
type Slot struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Record describes one applied edit in terms of node names. Names are resolved
// against the live tree every time the record is replayed.
type Record struct {
	Kind Kind `json:"kind"`

	// Node is the dragged office.
	Node           string `json:"node"`
	OriginalParent string `json:"originalParent"`
	OriginalIndex  int    `json:"originalIndex"`

	Target string `json:"target"`
	// TargetParent is Target's parent when the edit was applied, empty when
	// Target is the root.
	TargetParent string `json:"targetParent,omitempty"`

	// Promoted lists the children Node handed to OriginalParent when it was
	// relocated under one of its own descendants, with their former indexes.
	Promoted []Slot `json:"promoted,omitempty"`
}

// History holds the undo and redo stacks. The zero value is ready to use.
type History struct {
	undo []Record
	redo []Record
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Push records a fresh user edit. Any redo entries are discarded because they
// no longer follow from the current tree.
func (h *History) Push(r Record) {
	h.undo = append(h.undo, r)
	h.redo = nil
}

// PushUndo appends to the undo stack without touching redo. Used by redo replay.
func (h *History) PushUndo(r Record) {
	h.undo = append(h.undo, r)
}

// PushRedo appends to the redo stack. Used by undo replay.
func (h *History) PushRedo(r Record) {
	h.redo = append(h.redo, r)
}

// PopUndo removes and returns the most recent undo record.
func (h *History) PopUndo() (Record, bool) {
	return pop(&h.undo)
}

// PopRedo removes and returns the most recent redo record.
func (h *History) PopRedo() (Record, bool) {
	return pop(&h.redo)
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLen and RedoLen report stack depths.
func (h *History) UndoLen() int { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }

// Clear drops both stacks, e.g. after a different tree is loaded.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func pop(stack *[]Record) (Record, bool) {
	s := *stack
	if len(s) == 0 {
		return Record{}, false
	}
	r := s[len(s)-1]
	*stack = s[:len(s)-1]
	return r, true
}
