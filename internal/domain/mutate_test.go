package domain_test

import (
	"testing"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelocate_UnderSibling(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "B"}},
		testutil.WithPosition("A", "Clerk", 1.0, false))
	a, b := root.Find("A"), root.Find("B")

	promoted := b.Relocate(a, root)

	assert.Empty(t, promoted)
	assert.Equal(t, []string{"A"}, testutil.ChildNames(root, "Root"))
	assert.Equal(t, []string{"B"}, testutil.ChildNames(root, "A"))
	assert.Equal(t, []domain.Position{{Title: "Clerk", FTE: 1.0}}, a.Positions)
}

func TestRelocate_OntoCurrentParentIsIdempotent(t *testing.T) {
	root := testutil.NewSampleOrg()
	payroll := root.Find("Payroll")
	finance := root.Find("Finance")
	before := root.Clone()

	payroll.Relocate(finance, finance)
	payroll.Relocate(finance, finance)

	assert.True(t, domain.Equal(before, root))
}

func TestRelocate_RepeatedMoveMatchesSingleMove(t *testing.T) {
	once := testutil.NewSampleOrg()
	twice := testutil.NewSampleOrg()

	once.Find("Budget").Relocate(once.Find("Operations"), once.Find("Finance"))

	b := twice.Find("Budget")
	b.Relocate(twice.Find("Operations"), twice.Find("Finance"))
	b.Relocate(twice.Find("Operations"), twice.ParentOf(b))

	assert.True(t, domain.Equal(once, twice))
}

func TestRelocate_UnderOwnChildPromotesChildren(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "A", Child: "C"}})
	a, c := root.Find("A"), root.Find("C")

	promoted := a.Relocate(c, root)

	require.Len(t, promoted, 1)
	assert.Equal(t, "C", promoted[0].Name)
	assert.Equal(t, []string{"C"}, testutil.ChildNames(root, "Root"))
	assert.Equal(t, []string{"A"}, testutil.ChildNames(root, "C"))
	assert.Empty(t, a.Children)
}

func TestRelocate_UnderDeepDescendant(t *testing.T) {
	root := testutil.NewSampleOrg()
	operations := root.Find("Operations")
	custodial := root.Find("Custodial")

	promoted := operations.Relocate(custodial, root)

	var names []string
	for _, p := range promoted {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Facilities", "Transport"}, names)

	// Every former child of Operations now hangs off the old parent.
	assert.Equal(t, "Division", testutil.ParentName(root, "Facilities"))
	assert.Equal(t, "Division", testutil.ParentName(root, "Transport"))
	assert.Equal(t, "Custodial", testutil.ParentName(root, "Operations"))
	assert.False(t, custodial.IsDescendantOf(operations))
	assert.Empty(t, operations.Children)
	assert.Equal(t, 11, root.Count())
}

func TestRelocate_OntoSelfIsNoop(t *testing.T) {
	root := testutil.NewSampleOrg()
	before := root.Clone()
	finance := root.Find("Finance")

	finance.Relocate(finance, root)

	assert.True(t, domain.Equal(before, root))
}

func TestRelocateAt_InsertsAtIndex(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "B"}, {Parent: "Root", Child: "C"}, {Parent: "A", Child: "X"}})
	x := root.Find("X")

	x.RelocateAt(root, root.Find("A"), 1)
	assert.Equal(t, []string{"A", "X", "B", "C"}, testutil.ChildNames(root, "Root"))

	// Already under the target: reposition among siblings.
	x.RelocateAt(root, root, 3)
	assert.Equal(t, []string{"A", "B", "C", "X"}, testutil.ChildNames(root, "Root"))
}

func TestSwap_Siblings(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{
		{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "X"}, {Parent: "Root", Child: "B"}, {Parent: "A", Child: "A1"}, {Parent: "B", Child: "B1"}, {Parent: "B", Child: "B2"},
	}, testutil.WithPosition("A", "Clerk", 1, false))
	a, b := root.Find("A"), root.Find("B")

	a.Swap(b, root, root)

	assert.Equal(t, []string{"B", "X", "A"}, testutil.ChildNames(root, "Root"))
	assert.Equal(t, []string{"B1", "B2"}, testutil.ChildNames(root, "A"))
	assert.Equal(t, []string{"A1"}, testutil.ChildNames(root, "B"))
	assert.Len(t, a.Positions, 1, "positions stay with the node")
	assert.Empty(t, b.Positions)
}

func TestSwap_SiblingsReverseOrder(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "B"}, {Parent: "Root", Child: "A"}, {Parent: "Root", Child: "X"}})

	root.Find("A").Swap(root.Find("B"), root, root)

	assert.Equal(t, []string{"A", "B", "X"}, testutil.ChildNames(root, "Root"))
}

func TestSwap_Cousins(t *testing.T) {
	root := testutil.NewSampleOrg()
	payroll, transport := root.Find("Payroll"), root.Find("Transport")

	payroll.Swap(transport, root.Find("Finance"), root.Find("Operations"))

	assert.Equal(t, []string{"Transport", "Budget"}, testutil.ChildNames(root, "Finance"))
	assert.Equal(t, []string{"Facilities", "Payroll"}, testutil.ChildNames(root, "Operations"))
	assert.Len(t, payroll.Positions, 2)
	assert.Equal(t, "Bus Coordinator", transport.Positions[0].Title)
}

func TestSwap_ParentAndChild(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{
		{Parent: "Root", Child: "P0"}, {Parent: "Root", Child: "A"}, {Parent: "A", Child: "A1"}, {Parent: "A", Child: "B"}, {Parent: "A", Child: "A2"}, {Parent: "B", Child: "B1"},
	})
	a, b := root.Find("A"), root.Find("B")

	a.Swap(b, root, a)

	assert.Equal(t, []string{"P0", "B"}, testutil.ChildNames(root, "Root"))
	assert.Equal(t, []string{"A1", "A", "A2"}, testutil.ChildNames(root, "B"))
	assert.Equal(t, []string{"B1"}, testutil.ChildNames(root, "A"))
}

func TestSwap_ChildAndParent(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{
		{Parent: "Root", Child: "A"}, {Parent: "A", Child: "B"}, {Parent: "A", Child: "A2"}, {Parent: "B", Child: "B1"},
	})
	a, b := root.Find("A"), root.Find("B")

	b.Swap(a, a, root)

	assert.Equal(t, []string{"B"}, testutil.ChildNames(root, "Root"))
	assert.Equal(t, []string{"A", "A2"}, testutil.ChildNames(root, "B"))
	assert.Equal(t, []string{"B1"}, testutil.ChildNames(root, "A"))
}

func TestSwap_RoundTripRestoresTree(t *testing.T) {
	pairs := []struct {
		name string
		a, b string
	}{
		{"siblings", "Finance", "Operations"},
		{"cousins", "Payroll", "Custodial"},
		{"parent and child", "Operations", "Facilities"},
		{"child and parent", "Custodial", "Facilities"},
		{"grandparent and grandchild", "Operations", "Custodial"},
		{"leaf and branch", "Speech", "Finance"},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			root := testutil.NewSampleOrg()
			before := root.Clone()
			a, b := root.Find(tc.a), root.Find(tc.b)

			a.Swap(b, root.ParentOf(a), root.ParentOf(b))
			assert.False(t, domain.Equal(before, root))
			assert.Equal(t, before.Count(), root.Count())

			a.Swap(b, root.ParentOf(a), root.ParentOf(b))
			assert.True(t, domain.Equal(before, root))
		})
	}
}
