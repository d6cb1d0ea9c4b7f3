package domain

import (
	"errors"
	"sort"
)

// ErrNodeNotFound is returned when a node name does not resolve against the live tree.
var ErrNodeNotFound = errors.New("node not found")

// Node is an office in the organization hierarchy. Name is unique across the
// whole tree and doubles as the node's identity.
type Node struct {
	Name      string     `json:"name"`
	Children  []*Node    `json:"children"`
	Positions []Position `json:"positions"`
}

// NewNode creates a node with no children and no positions.
func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Children:  []*Node{},
		Positions: []Position{},
	}
}

// AddChild creates a child office under n and returns it.
func (n *Node) AddChild(name string) *Node {
	child := NewNode(name)
	n.Children = append(n.Children, child)
	return child
}

// AddPosition appends a position to the office and returns n for chaining.
func (n *Node) AddPosition(title string, fte float64, ideaFunded bool) *Node {
	n.Positions = append(n.Positions, Position{Title: title, FTE: fte, IdeaFunded: ideaFunded})
	return n
}

// IndexOf returns the sibling index of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// InsertChild inserts child at index. An index outside the current bounds appends.
func (n *Node) InsertChild(child *Node, index int) {
	if index < 0 || index >= len(n.Children) {
		n.Children = append(n.Children, child)
		return
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

// RemoveChild detaches child from n. Returns false if child was not a direct child.
func (n *Node) RemoveChild(child *Node) bool {
	idx := n.IndexOf(child)
	if idx < 0 {
		return false
	}
	n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	return true
}

// IsDescendantOf reports whether n appears anywhere in ancestor's subtree.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for _, child := range ancestor.Children {
		if child == n || n.IsDescendantOf(child) {
			return true
		}
	}
	return false
}

// Find returns the node called name in n's subtree (n included), or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// ParentOf returns the direct parent of target within n's subtree, or nil
// when target is n itself or is not part of the subtree.
func (n *Node) ParentOf(target *Node) *Node {
	for _, child := range n.Children {
		if child == target {
			return n
		}
		if p := child.ParentOf(target); p != nil {
			return p
		}
	}
	return nil
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// visited node's children.
func (n *Node) Walk(fn func(node, parent *Node, depth int) bool) {
	n.walk(nil, 0, fn)
}

func (n *Node) walk(parent *Node, depth int, fn func(node, parent *Node, depth int) bool) {
	if !fn(n, parent, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(n, depth+1, fn)
	}
}

// Names returns every node name in pre-order.
func (n *Node) Names() []string {
	var names []string
	n.Walk(func(node, _ *Node, _ int) bool {
		names = append(names, node.Name)
		return true
	})
	return names
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, *Node, int) bool {
		count++
		return true
	})
	return count
}

// TotalFTE sums the FTE of the office's own positions.
func (n *Node) TotalFTE() float64 {
	var total float64
	for _, p := range n.Positions {
		total += p.FTE
	}
	return total
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:      n.Name,
		Children:  make([]*Node, 0, len(n.Children)),
		Positions: append([]Position{}, n.Positions...),
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Equal reports whether two trees have the same names, positions and child
// order at every level.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || !equalPositions(a.Positions, b.Positions) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// EqualUnordered is Equal with sibling order ignored. Positions are compared
// as multisets as well.
func EqualUnordered(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || len(a.Children) != len(b.Children) {
		return false
	}
	if !equalPositions(sortedPositions(a.Positions), sortedPositions(b.Positions)) {
		return false
	}
	ac, bc := sortedChildren(a.Children), sortedChildren(b.Children)
	for i := range ac {
		if !EqualUnordered(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

func equalPositions(a, b []Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedPositions(ps []Position) []Position {
	out := append([]Position{}, ps...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		if out[i].FTE != out[j].FTE {
			return out[i].FTE < out[j].FTE
		}
		return !out[i].IdeaFunded && out[j].IdeaFunded
	})
	return out
}

func sortedChildren(children []*Node) []*Node {
	out := append([]*Node{}, children...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
