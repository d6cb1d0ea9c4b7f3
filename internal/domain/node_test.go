package domain_test

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertChild_ClampsOutOfRangeIndex(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "B"}})
	c := domain.NewNode("C")
	root.InsertChild(c, 10)
	assert.Equal(t, []string{"A", "B", "C"}, testutil.ChildNames(root, "Root"))

	d := domain.NewNode("D")
	root.InsertChild(d, 1)
	assert.Equal(t, []string{"A", "D", "B", "C"}, testutil.ChildNames(root, "Root"))

	e := domain.NewNode("E")
	root.InsertChild(e, -1)
	assert.Equal(t, []string{"A", "D", "B", "C", "E"}, testutil.ChildNames(root, "Root"))
}

func TestRemoveChild_NotAChild(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "A", Child: "B"}})
	assert.False(t, root.RemoveChild(root.Find("B")))
	assert.True(t, root.Find("A").RemoveChild(root.Find("B")))
	assert.Empty(t, root.Find("A").Children)
}

func TestIsDescendantOf(t *testing.T) {
	root := testutil.NewSampleOrg()
	custodial := root.Find("Custodial")
	operations := root.Find("Operations")

	assert.True(t, custodial.IsDescendantOf(operations))
	assert.True(t, custodial.IsDescendantOf(root))
	assert.False(t, operations.IsDescendantOf(custodial))
	assert.False(t, operations.IsDescendantOf(operations), "a node is not its own descendant")
	assert.False(t, root.Find("Payroll").IsDescendantOf(operations))
}

func TestFindAndParentOf(t *testing.T) {
	root := testutil.NewSampleOrg()
	require.NotNil(t, root.Find("Speech"))
	assert.Nil(t, root.Find("Nope"))
	assert.Equal(t, "Special Education", root.ParentOf(root.Find("Speech")).Name)
	assert.Nil(t, root.ParentOf(root))
}

func TestNamesAndCount(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "A", Child: "C"}, {Parent: "Root", Child: "B"}})
	assert.Equal(t, []string{"Root", "A", "C", "B"}, root.Names())
	assert.Equal(t, 4, root.Count())
}

func TestClone_IsDeep(t *testing.T) {
	root := testutil.NewSampleOrg()
	clone := root.Clone()
	require.True(t, domain.Equal(root, clone))

	clone.Find("Payroll").AddPosition("Temp", 0.25, false)
	clone.Find("Finance").RemoveChild(clone.Find("Budget"))

	assert.False(t, domain.Equal(root, clone))
	assert.Len(t, root.Find("Payroll").Positions, 2)
	assert.NotNil(t, root.Find("Budget"))
}

func TestEqualUnordered_IgnoresSiblingOrder(t *testing.T) {
	a := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "B"}},
		testutil.WithPosition("A", "Clerk", 1, false),
		testutil.WithPosition("A", "Aide", 0.5, true))
	b := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "B"}, {Parent: "Root", Child: "A"}},
		testutil.WithPosition("A", "Aide", 0.5, true),
		testutil.WithPosition("A", "Clerk", 1, false))

	assert.False(t, domain.Equal(a, b))
	assert.True(t, domain.EqualUnordered(a, b))
}

func TestTotalFTE(t *testing.T) {
	root := testutil.NewSampleOrg()
	assert.InDelta(t, 1.0, root.Find("Payroll").TotalFTE(), 1e-9)
	assert.Zero(t, root.Find("Operations").TotalFTE())
}

// assertUniqueNames fails when any name appears twice in the tree.
func assertUniqueNames(t *testing.T, root *domain.Node) {
	t.Helper()
	seen := make(map[string]bool)
	for _, name := range root.Names() {
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestRandomMutations_PreserveNamesAndAcyclicity(t *testing.T) {
	root := testutil.NewSampleOrg()
	want := root.Count()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		names := root.Names()
		a := root.Find(names[1+rng.Intn(len(names)-1)])
		b := root.Find(names[rng.Intn(len(names))])
		if a == b {
			continue
		}
		pa := root.ParentOf(a)
		if rng.Intn(2) == 0 || b == root {
			a.Relocate(b, pa)
		} else {
			a.Swap(b, pa, root.ParentOf(b))
		}

		// A cycle would detach nodes from the root and shrink the count.
		require.Equal(t, want, root.Count(), "iteration %d lost or duplicated nodes", i)
	}
	assertUniqueNames(t, root)
}
