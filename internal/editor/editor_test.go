package editor

import (
	"testing"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/history"
	"github.com/alexanderramin/orgchart/internal/interact"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	posted []mirror.Request
}

func (p *recordingPoster) Post(req mirror.Request) {
	p.posted = append(p.posted, req)
}

func (p *recordingPoster) take() []mirror.Request {
	out := p.posted
	p.posted = nil
	return out
}

func newTestEditor(t *testing.T, root *domain.Node) (*Editor, *recordingPoster) {
	t.Helper()
	poster := &recordingPoster{}
	e := New(poster, nil)
	e.Load(root)
	return e, poster
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("move")
	require.NoError(t, err)
	assert.Equal(t, ModeMove, m)

	m, err = ParseMode("SWAP")
	require.NoError(t, err)
	assert.Equal(t, ModeSwap, m)

	_, err = ParseMode("drag")
	assert.Error(t, err)
}

func TestToggleMode(t *testing.T) {
	e := New(nil, nil)
	assert.Equal(t, ModeSwap, e.Mode())
	assert.Equal(t, ModeMove, e.ToggleMode())
	assert.Equal(t, ModeSwap, e.ToggleMode())
}

func TestDrop_SwapModeSwaps(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())

	changed, err := e.Drop("Payroll", "Transport")
	require.NoError(t, err)
	require.True(t, changed)

	assert.Equal(t, "Operations", testutil.ParentName(e.Root(), "Payroll"))
	assert.Equal(t, []mirror.Request{mirror.SwapRequest("Payroll", "Transport")}, poster.take())
	assert.True(t, e.CanUndo())
}

func TestDrop_OntoRootAlwaysRelocates(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())

	changed, err := e.Drop("Payroll", "Division")
	require.NoError(t, err)
	require.True(t, changed)

	assert.Equal(t, "Division", testutil.ParentName(e.Root(), "Payroll"))
	assert.Equal(t, []mirror.Request{mirror.MoveRequest("Payroll", "Division", false)}, poster.take())
}

func TestDrop_MoveModeFlagsDescendantTarget(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())
	e.SetMode(ModeMove)

	changed, err := e.Drop("Operations", "Custodial")
	require.NoError(t, err)
	require.True(t, changed)

	assert.Equal(t, []mirror.Request{mirror.MoveRequest("Operations", "Custodial", true)}, poster.take())
	assert.Equal(t, "Division", testutil.ParentName(e.Root(), "Transport"))
}

func TestDrop_OntoCurrentParentIsSilent(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())
	e.SetMode(ModeMove)

	changed, err := e.Drop("Payroll", "Finance")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, poster.take())
	assert.False(t, e.CanUndo())
}

func TestDrop_UnknownNodeReturnsError(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())

	_, err := e.Drop("Ghost", "Finance")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Empty(t, poster.take())
}

func TestDrop_LayoutFollowsTree(t *testing.T) {
	e, _ := newTestEditor(t, testutil.NewSampleOrg())
	before, _ := e.Layout().Box("Payroll")

	_, err := e.Drop("Payroll", "Division")
	require.NoError(t, err)

	after, ok := e.Layout().Box("Payroll")
	require.True(t, ok)
	assert.Equal(t, 1, after.Depth)
	assert.NotEqual(t, before.Depth, after.Depth)
}

func TestRelease_CancelledDropIsNoop(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())
	before := e.Root().Clone()

	changed, err := e.Release(interact.DropResult{Dragged: "Payroll", Cancelled: true})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, domain.Equal(before, e.Root()))
	assert.Empty(t, poster.take())
}

func TestRelease_FromDragSession(t *testing.T) {
	e, _ := newTestEditor(t, testutil.NewSampleOrg())
	e.SetMode(ModeMove)

	d := interact.NewDrag(e.Layout(), e.Root().Name, 0)
	require.True(t, d.Begin("Budget"))
	target, _ := e.Layout().Box("Transport")
	d.MoveTo(target.Anchor())

	changed, err := e.Release(d.Drop())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Transport", testutil.ParentName(e.Root(), "Budget"))
}

func TestUndoRedo_ExampleScenario(t *testing.T) {
	root := testutil.NewTestTree("Root", []testutil.Edge{{Parent: "Root", Child: "A"}, {Parent: "Root", Child: "B"}},
		testutil.WithPosition("A", "Clerk", 1.0, false))
	e, poster := newTestEditor(t, root)
	e.SetMode(ModeMove)
	clerk := []domain.Position{{Title: "Clerk", FTE: 1.0}}

	_, err := e.Drop("B", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, testutil.ChildNames(e.Root(), "A"))
	assert.Equal(t, clerk, e.Root().Find("A").Positions)
	poster.take()

	undone, err := e.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	assert.Equal(t, []string{"A", "B"}, testutil.ChildNames(e.Root(), "Root"))
	assert.Equal(t, clerk, e.Root().Find("A").Positions)
	assert.Equal(t, []mirror.Request{mirror.MoveRequest("B", "Root", false)}, poster.take())
	assert.True(t, e.CanRedo())

	redone, err := e.Redo()
	require.NoError(t, err)
	require.True(t, redone)
	assert.Equal(t, []string{"B"}, testutil.ChildNames(e.Root(), "A"))
	assert.Equal(t, []mirror.Request{mirror.MoveRequest("B", "A", false)}, poster.take())
}

func TestUndoRedo_EmptyStacksAreNoops(t *testing.T) {
	e, poster := newTestEditor(t, testutil.NewSampleOrg())

	undone, err := e.Undo()
	require.NoError(t, err)
	assert.False(t, undone)

	redone, err := e.Redo()
	require.NoError(t, err)
	assert.False(t, redone)
	assert.Empty(t, poster.take())
}

func TestDrop_ClearsRedo(t *testing.T) {
	e, _ := newTestEditor(t, testutil.NewSampleOrg())

	_, err := e.Drop("Payroll", "Budget")
	require.NoError(t, err)
	_, err = e.Undo()
	require.NoError(t, err)
	require.True(t, e.CanRedo())

	_, err = e.Drop("Speech", "Psychology")
	require.NoError(t, err)
	assert.False(t, e.CanRedo())
}

func TestLoad_ClearsHistory(t *testing.T) {
	e, _ := newTestEditor(t, testutil.NewSampleOrg())
	_, err := e.Drop("Payroll", "Budget")
	require.NoError(t, err)
	require.True(t, e.CanUndo())

	e.Load(testutil.NewSampleOrg())
	assert.False(t, e.CanUndo())
	assert.Equal(t, history.New().UndoLen(), e.History().UndoLen())
}
