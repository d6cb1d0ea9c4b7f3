package history

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/orgchart/internal/domain"
)

// ErrRootNode is returned when an edit would detach the root office.
var ErrRootNode = errors.New("root office cannot be moved")

// Effect is a tree change expressed the way the persistence mirror receives it.
// Undo and redo produce the same shapes as fresh edits.
type Effect struct {
	Kind        Kind
	Dragged     string
	Target      string
	Descendants bool
}

// Apply performs the forward edit named by r.Kind, r.Node and r.Target on root
// and returns the completed record needed to invert it.
//
// A relocation onto the node's current parent changes nothing and yields no
// effects; callers should not record it.
func Apply(root *domain.Node, r Record) (Record, []Effect, error) {
	node, parent, err := resolveMovable(root, r.Node)
	if err != nil {
		return Record{}, nil, err
	}
	target, err := resolve(root, r.Target)
	if err != nil {
		return Record{}, nil, err
	}
	if node == target {
		return r, nil, nil
	}

	done := Record{
		Kind:           r.Kind,
		Node:           node.Name,
		OriginalParent: parent.Name,
		OriginalIndex:  parent.IndexOf(node),
		Target:         target.Name,
	}
	targetParent := root.ParentOf(target)
	if targetParent != nil {
		done.TargetParent = targetParent.Name
	}

	switch r.Kind {
	case KindRelocate:
		if parent == target {
			return done, nil, nil
		}
		descendants := target.IsDescendantOf(node)
		for i, child := range node.Relocate(target, parent) {
			done.Promoted = append(done.Promoted, Slot{Name: child.Name, Index: i})
		}
		return done, []Effect{{
			Kind:        KindRelocate,
			Dragged:     node.Name,
			Target:      target.Name,
			Descendants: descendants,
		}}, nil

	case KindSwap:
		if targetParent == nil {
			return Record{}, nil, fmt.Errorf("swapping with %q: %w", target.Name, ErrRootNode)
		}
		node.Swap(target, parent, targetParent)
		return done, []Effect{{Kind: KindSwap, Dragged: node.Name, Target: target.Name}}, nil

	default:
		return Record{}, nil, fmt.Errorf("applying record: unknown kind %q", r.Kind)
	}
}

// Revert undoes an edit previously returned by Apply. The tree must be in the
// state Apply left it in.
func Revert(root *domain.Node, r Record) ([]Effect, error) {
	node, current, err := resolveMovable(root, r.Node)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case KindRelocate:
		original, err := resolve(root, r.OriginalParent)
		if err != nil {
			return nil, err
		}
		node.RelocateAt(original, current, r.OriginalIndex)
		effects := []Effect{{Kind: KindRelocate, Dragged: node.Name, Target: original.Name}}

		// Promoted slots were captured in ascending order, so each insert
		// lands at an index that already exists or is the end.
		for _, slot := range r.Promoted {
			child, parent, err := resolveMovable(root, slot.Name)
			if err != nil {
				return effects, err
			}
			child.RelocateAt(node, parent, slot.Index)
			effects = append(effects, Effect{Kind: KindRelocate, Dragged: child.Name, Target: node.Name})
		}
		return effects, nil

	case KindSwap:
		target, targetParent, err := resolveMovable(root, r.Target)
		if err != nil {
			return nil, err
		}
		node.Swap(target, current, targetParent)
		return []Effect{{Kind: KindSwap, Dragged: node.Name, Target: target.Name}}, nil

	default:
		return nil, fmt.Errorf("reverting record: unknown kind %q", r.Kind)
	}
}

func resolve(root *domain.Node, name string) (*domain.Node, error) {
	n := root.Find(name)
	if n == nil {
		return nil, fmt.Errorf("resolving %q: %w", name, domain.ErrNodeNotFound)
	}
	return n, nil
}

// resolveMovable resolves name and its parent. The root has no parent and is
// reported as ErrRootNode.
func resolveMovable(root *domain.Node, name string) (*domain.Node, *domain.Node, error) {
	n, err := resolve(root, name)
	if err != nil {
		return nil, nil, err
	}
	parent := root.ParentOf(n)
	if parent == nil {
		return nil, nil, fmt.Errorf("moving %q: %w", name, ErrRootNode)
	}
	return n, parent, nil
}
