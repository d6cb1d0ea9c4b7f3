package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/orgchart/internal/domain"
)

var testOfficeCounter atomic.Int64

// Edge declares Child as a direct child of Parent.
type Edge struct {
	Parent string
	Child  string
}

// Tree options
type TreeOption func(root *domain.Node)

// WithPosition attaches a position to the named office.
func WithPosition(office, title string, fte float64, ideaFunded bool) TreeOption {
	return func(root *domain.Node) {
		n := root.Find(office)
		if n == nil {
			panic(fmt.Sprintf("testutil: office %q not in tree", office))
		}
		n.AddPosition(title, fte, ideaFunded)
	}
}

// NewTestTree builds a tree rooted at rootName. Edges are applied in order, so
// a parent must be declared before its children.
func NewTestTree(rootName string, edges []Edge, opts ...TreeOption) *domain.Node {
	root := domain.NewNode(rootName)
	for _, e := range edges {
		parent := root.Find(e.Parent)
		if parent == nil {
			panic(fmt.Sprintf("testutil: parent %q declared after child %q", e.Parent, e.Child))
		}
		parent.AddChild(e.Child)
	}
	for _, opt := range opts {
		opt(root)
	}
	return root
}

// NewSampleOrg returns a three-level organization with positions on most offices.
func NewSampleOrg() *domain.Node {
	return NewTestTree("Division", []Edge{
		{"Division", "Finance"},
		{"Finance", "Payroll"},
		{"Finance", "Budget"},
		{"Division", "Operations"},
		{"Operations", "Facilities"},
		{"Facilities", "Custodial"},
		{"Operations", "Transport"},
		{"Division", "Special Education"},
		{"Special Education", "Speech"},
		{"Special Education", "Psychology"},
	},
		WithPosition("Division", "Director", 1, false),
		WithPosition("Finance", "Controller", 1, false),
		WithPosition("Payroll", "Payroll Clerk", 0.5, false),
		WithPosition("Payroll", "Payroll Clerk", 0.5, false),
		WithPosition("Budget", "Budget Analyst", 1, false),
		WithPosition("Facilities", "Facilities Manager", 1, false),
		WithPosition("Custodial", "Night Custodian", 0.75, false),
		WithPosition("Transport", "Bus Coordinator", 1, true),
		WithPosition("Special Education", "Coordinator", 1, true),
		WithPosition("Speech", "Speech Pathologist", 0.8, true),
		WithPosition("Psychology", "School Psychologist", 1, true),
	)
}

// UniqueOfficeName returns a fresh office name for tests that need many nodes.
func UniqueOfficeName(prefix string) string {
	return fmt.Sprintf("%s %03d", prefix, testOfficeCounter.Add(1))
}

// ParentName returns the name of name's parent, or "" for the root or a missing node.
func ParentName(root *domain.Node, name string) string {
	n := root.Find(name)
	if n == nil {
		return ""
	}
	if p := root.ParentOf(n); p != nil {
		return p.Name
	}
	return ""
}

// ChildNames returns the names of the office's direct children in order.
func ChildNames(root *domain.Node, name string) []string {
	n := root.Find(name)
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}
