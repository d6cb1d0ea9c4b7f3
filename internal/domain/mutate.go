package domain

// Relocate moves n under target, detaching it from parent, and appends it to
// target's children.
//
// Relocating onto the current parent is a no-op. When target lies inside n's
// subtree, n is moved alone: its former children are re-attached under parent
// so the tree stays acyclic. The promoted children are returned in their
// original order.
func (n *Node) Relocate(target, parent *Node) []*Node {
	return n.relocate(target, parent, -1)
}

// RelocateAt is Relocate with an explicit insertion index. If target already
// is the parent, n is repositioned among its siblings instead.
func (n *Node) RelocateAt(target, parent *Node, index int) []*Node {
	if target.IndexOf(n) >= 0 {
		target.RemoveChild(n)
		target.InsertChild(n, index)
		return nil
	}
	return n.relocate(target, parent, index)
}

func (n *Node) relocate(target, parent *Node, index int) []*Node {
	if target == n || target.IndexOf(n) >= 0 {
		return nil
	}

	if target.IsDescendantOf(n) {
		parent.RemoveChild(n)

		promoted := n.Children
		n.Children = []*Node{}

		target.InsertChild(n, index)

		for _, child := range promoted {
			parent.InsertChild(child, -1)
		}
		return promoted
	}

	parent.RemoveChild(n)
	target.InsertChild(n, index)
	return nil
}

// Swap exchanges the tree placement of n and target: parent link, sibling
// index and child subtree. Each node keeps its own name and positions.
func (n *Node) Swap(target, parent, targetParent *Node) {
	if n == target {
		return
	}

	if parent == targetParent {
		i, j := parent.IndexOf(n), parent.IndexOf(target)
		parent.Children[i], parent.Children[j] = target, n
		n.Children, target.Children = target.Children, n.Children
		return
	}

	oldIdx := parent.IndexOf(n)
	oldTargetIdx := targetParent.IndexOf(target)

	// Break a direct parent/child link first so neither node ends up inside
	// the child list it is about to receive.
	n.RemoveChild(target)
	target.RemoveChild(n)

	own := append([]*Node{}, n.Children...)
	theirs := append([]*Node{}, target.Children...)

	parent.RemoveChild(n)
	targetParent.RemoveChild(target)

	n.Children = theirs
	target.Children = own

	if parent == target {
		n.InsertChild(target, oldIdx)
	} else {
		parent.InsertChild(target, oldIdx)
	}

	if targetParent == n {
		target.InsertChild(n, oldTargetIdx)
	} else {
		targetParent.InsertChild(n, oldTargetIdx)
	}
}
