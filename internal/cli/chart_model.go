package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/editor"
	"github.com/alexanderramin/orgchart/internal/interact"
	"github.com/alexanderramin/orgchart/internal/layout"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// mirrorClient is the editor's view of the mirror.
type mirrorClient interface {
	editor.Poster
	Responses() <-chan mirror.Response
}

type chartOptions struct {
	Mode        editor.Mode
	MaxDistance float64
	Logger      *slog.Logger
}

type (
	mirrorMsg       struct{ resp mirror.Response }
	mirrorClosedMsg struct{}
	panMsg          struct{ dx, dy float64 }
)

const (
	panelWidth    = 36
	minPanelWidth = 100
	headerLines   = 2

	keyStepX    = 4 * cellWidth
	keyStepY    = 3 * cellHeight
	chartMargin = 2 * cellWidth
)

type searchHit struct {
	label  string
	office string
}

// chartModel is the interactive chart editor.
type chartModel struct {
	client      mirrorClient
	editor      *editor.Editor
	logger      *slog.Logger
	maxDistance float64

	keys   chartKeyMap
	help   help.Model
	input  textinput.Model
	panel  viewport.Model
	panner *interact.AutoPanner
	panCh  chan panMsg

	width, height int
	panX, panY    float64
	framed        bool

	selected  string
	drag      *interact.Drag
	mouseDrag bool
	grab      layout.Point

	searching bool
	category  mirror.SearchCategory
	query     string
	hits      []searchHit
	hitCursor int

	status    string
	statusErr bool
	loaded    bool
	closed    bool
	quitting  bool
}

func newChartModel(client mirrorClient, opts chartOptions) *chartModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ed := editor.New(client, logger)
	if opts.Mode != "" {
		ed.SetMode(opts.Mode)
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.CharLimit = 100

	m := &chartModel{
		client:      client,
		editor:      ed,
		logger:      logger.With("component", "chart"),
		maxDistance: opts.MaxDistance,
		keys:        defaultChartKeys(),
		help:        help.New(),
		input:       input,
		panel:       viewport.New(panelWidth-2, 0),
		panCh:       make(chan panMsg, 1),
		category:    mirror.SearchOffices,
		status:      "Loading organization…",
	}
	m.input.Placeholder = m.placeholder()
	m.panner = interact.NewAutoPanner(interact.PanInterval, interact.PanSpeed, func(dx, dy float64) {
		select {
		case m.panCh <- panMsg{dx: dx, dy: dy}:
		default:
		}
	})
	return m
}

func waitResponse(ch <-chan mirror.Response) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-ch
		if !ok {
			return mirrorClosedMsg{}
		}
		return mirrorMsg{resp: resp}
	}
}

func waitPan(ch <-chan panMsg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

// stop halts background panning. Safe to call more than once.
func (m *chartModel) stop() {
	m.panner.Stop()
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m *chartModel) Init() tea.Cmd {
	m.client.Post(mirror.GetTreeRequest())
	return tea.Batch(waitResponse(m.client.Responses()), waitPan(m.panCh))
}

func (m *chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampPan()
		return m, nil

	case mirrorMsg:
		m.handleResponse(msg.resp)
		return m, waitResponse(m.client.Responses())

	case mirrorClosedMsg:
		m.closed = true
		m.setError("The organization store closed; edits are no longer saved.")
		return m, nil

	case panMsg:
		m.applyPan(msg.dx, msg.dy)
		return m, waitPan(m.panCh)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *chartModel) handleResponse(resp mirror.Response) {
	switch resp.Type {
	case mirror.ResponseTree:
		m.resetDrag()
		m.editor.Load(resp.Tree)
		m.loaded = true
		root := m.editor.Root()
		if root.Find(m.selected) == nil {
			m.selected = root.Name
		}
		if !m.framed {
			m.centerOn(root.Name)
			m.framed = true
		}
		m.clampPan()
		m.setStatus(fmt.Sprintf("Loaded %s.", formatter.Plural(root.Count(), "office", "offices")))

	case mirror.ResponseOffices:
		m.hits = m.hits[:0]
		for _, r := range resp.Offices {
			label := r.Name
			if r.Parent != "" {
				label += formatter.Dim(" ‹ " + r.Parent)
			}
			m.hits = append(m.hits, searchHit{label: label, office: r.Name})
		}
		m.showHits()

	case mirror.ResponsePositions:
		m.hits = m.hits[:0]
		for _, r := range resp.Positions {
			label := r.Title + formatter.Dim(" · "+r.Office)
			m.hits = append(m.hits, searchHit{label: label, office: r.Office})
		}
		m.showHits()

	case mirror.ResponseOpenMissingData:
		m.setError("The workbook has rows with missing data; nothing was imported.")

	case mirror.ResponseOpenError, mirror.ResponseError:
		m.setError(resp.Message)
	}
}

func (m *chartModel) showHits() {
	m.hitCursor = 0
	if len(m.hits) == 0 {
		m.setStatus(fmt.Sprintf("No %s match %q.", m.category, m.query))
		return
	}
	m.setStatus(fmt.Sprintf("%s for %q.", formatter.Plural(len(m.hits), "match", "matches"), m.query))
	m.jumpTo(m.hits[0].office)
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (m *chartModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || (!m.searching && key.Matches(msg, m.keys.Quit)) {
		m.stop()
		m.quitting = true
		return m, tea.Quit
	}
	if m.searching {
		return m, m.handleSearchKey(msg)
	}
	if m.dragging() {
		m.handleDragKey(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if n := m.selectedNode(); n != nil {
			if parent := m.editor.Root().ParentOf(n); parent != nil {
				m.jumpTo(parent.Name)
			}
		}
	case key.Matches(msg, m.keys.Down):
		if n := m.selectedNode(); n != nil && len(n.Children) > 0 {
			m.jumpTo(n.Children[0].Name)
		}
	case key.Matches(msg, m.keys.Left):
		m.selectSibling(-1)
	case key.Matches(msg, m.keys.Right):
		m.selectSibling(1)

	case key.Matches(msg, m.keys.Grab):
		m.beginDrag(m.selected, false)
	case key.Matches(msg, m.keys.Cancel):
		m.hits, m.query = nil, ""
		m.setStatus("")
	case key.Matches(msg, m.keys.Mode):
		mode := m.editor.ToggleMode()
		m.setStatus(fmt.Sprintf("Drops now %s offices.", strings.ToLower(string(mode))))
	case key.Matches(msg, m.keys.Undo):
		m.undoRedo(m.editor.Undo, "Undone.", "Nothing to undo.")
	case key.Matches(msg, m.keys.Redo):
		m.undoRedo(m.editor.Redo, "Redone.", "Nothing to redo.")

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NextResult):
		m.cycleHit(1)
	case key.Matches(msg, m.keys.PrevResult):
		m.cycleHit(-1)

	case key.Matches(msg, m.keys.PanUp):
		m.applyPan(0, -m.viewport().Height/4)
	case key.Matches(msg, m.keys.PanDown):
		m.applyPan(0, m.viewport().Height/4)
	case key.Matches(msg, m.keys.PanLeft):
		m.applyPan(-m.viewport().Width/4, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.applyPan(m.viewport().Width/4, 0)
	case key.Matches(msg, m.keys.Center):
		m.centerOn(m.selected)
		m.clampPan()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.clampPan()
	}
	return m, nil
}

func (m *chartModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return nil
	case key.Matches(msg, m.keys.Category):
		if m.category == mirror.SearchOffices {
			m.category = mirror.SearchPositions
		} else {
			m.category = mirror.SearchOffices
		}
		m.input.Placeholder = m.placeholder()
		return nil
	case msg.Type == tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return nil
		}
		m.query = q
		m.client.Post(mirror.SearchRequest(m.category, q))
		m.setStatus(fmt.Sprintf("Searching %s for %q…", m.category, q))
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *chartModel) handleDragKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.drag.MoveBy(0, -keyStepY)
	case key.Matches(msg, m.keys.Down):
		m.drag.MoveBy(0, keyStepY)
	case key.Matches(msg, m.keys.Left):
		m.drag.MoveBy(-keyStepX, 0)
	case key.Matches(msg, m.keys.Right):
		m.drag.MoveBy(keyStepX, 0)
	case key.Matches(msg, m.keys.Grab):
		m.release()
		return
	case key.Matches(msg, m.keys.Cancel):
		m.cancelDrag()
		return
	default:
		return
	}
	p := m.drag.Position()
	m.ensureVisible(p.X, p.Y, p.X, p.Y+cellHeight)
}

func (m *chartModel) placeholder() string {
	return "search " + string(m.category) + " (tab to switch)"
}

// ── mouse ────────────────────────────────────────────────────────────────────

// pointer converts a terminal cell to the chart point at its center.
func (m *chartModel) pointer(x, y int) layout.Point {
	return layout.Point{
		X: m.panX + (float64(x)+0.5)*cellWidth,
		Y: m.panY + (float64(y-headerLines)+0.5)*cellHeight,
	}
}

func (m *chartModel) inChart(x, y int) bool {
	return x >= 0 && x < m.chartCols() && y >= headerLines && y < headerLines+m.chartRows()
}

func (m *chartModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.applyPan(0, -3*cellHeight)
		return
	case tea.MouseButtonWheelDown:
		m.applyPan(0, 3*cellHeight)
		return
	case tea.MouseButtonWheelLeft:
		m.applyPan(-3*cellWidth, 0)
		return
	case tea.MouseButtonWheelRight:
		m.applyPan(3*cellWidth, 0)
		return
	}

	p := m.pointer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inChart(msg.X, msg.Y) || m.dragging() {
			return
		}
		name, ok := m.editor.Layout().At(p)
		if !ok {
			return
		}
		m.selected = name
		if m.beginDrag(name, true) {
			b, _ := m.editor.Layout().Box(name)
			a := b.Anchor()
			m.grab = layout.Point{X: p.X - a.X, Y: p.Y - a.Y}
		}

	case tea.MouseActionMotion:
		if !m.dragging() || !m.mouseDrag {
			return
		}
		m.drag.MoveTo(layout.Point{X: p.X - m.grab.X, Y: p.Y - m.grab.Y})
		m.panner.Update(interact.PanVector(p, m.viewport(), cellWidth))

	case tea.MouseActionRelease:
		if !m.dragging() || !m.mouseDrag {
			return
		}
		m.drag.MoveTo(layout.Point{X: p.X - m.grab.X, Y: p.Y - m.grab.Y})
		m.release()
	}
}

// ── drag and drop ────────────────────────────────────────────────────────────

func (m *chartModel) dragging() bool {
	return m.drag != nil && m.drag.Active()
}

func (m *chartModel) beginDrag(name string, mouse bool) bool {
	if !m.loaded || name == "" {
		return false
	}
	root := m.editor.Root()
	d := interact.NewDrag(m.editor.Layout(), root.Name, m.maxDistance)
	if !d.Begin(name) {
		if name == root.Name {
			m.setError("The root office cannot be moved.")
		}
		return false
	}
	m.drag = d
	m.mouseDrag = mouse
	m.setStatus(fmt.Sprintf("Picked up %s. Drop it on another office.", name))
	return true
}

func (m *chartModel) release() {
	res := m.drag.Drop()
	m.resetDrag()

	changed, err := m.editor.Release(res)
	switch {
	case err != nil:
		m.setError(err.Error())
	case res.Cancelled:
		m.setStatus("Drop cancelled.")
	case !changed:
		m.setStatus("Nothing to change.")
	default:
		m.selected = res.Dragged
		m.setStatus(dropSummary(m.editor.Mode(), m.editor.Root().Name, res.Dragged, res.Target))
	}
	m.clampPan()
}

func (m *chartModel) cancelDrag() {
	m.drag.Cancel()
	m.resetDrag()
	m.editor.Release(interact.DropResult{Cancelled: true})
	m.setStatus("Drop cancelled.")
}

func (m *chartModel) resetDrag() {
	m.drag = nil
	m.mouseDrag = false
	m.grab = layout.Point{}
	m.panner.Stop()
}

func (m *chartModel) undoRedo(op func() (bool, error), done, empty string) {
	ok, err := op()
	switch {
	case err != nil:
		m.setError(err.Error())
	case !ok:
		m.setStatus(empty)
	default:
		m.setStatus(done)
	}
	if m.editor.Root() != nil && m.editor.Root().Find(m.selected) == nil {
		m.selected = m.editor.Root().Name
	}
	m.clampPan()
}

// ── selection and panning ────────────────────────────────────────────────────

func (m *chartModel) selectedNode() *domain.Node {
	if m.editor.Root() == nil {
		return nil
	}
	return m.editor.Root().Find(m.selected)
}

// selectSibling moves the selection along the selected office's row.
func (m *chartModel) selectSibling(dir int) {
	cur, ok := m.editor.Layout().Box(m.selected)
	if !ok {
		return
	}
	var row []layout.Box
	for _, b := range m.editor.Layout().Boxes() {
		if b.Depth == cur.Depth {
			row = append(row, b)
		}
	}
	sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
	for i, b := range row {
		if b.Name == cur.Name {
			if j := i + dir; j >= 0 && j < len(row) {
				m.jumpTo(row[j].Name)
			}
			return
		}
	}
}

func (m *chartModel) cycleHit(dir int) {
	if len(m.hits) == 0 {
		return
	}
	m.hitCursor = (m.hitCursor + dir + len(m.hits)) % len(m.hits)
	m.jumpTo(m.hits[m.hitCursor].office)
}

// jumpTo selects an office and scrolls it into view.
func (m *chartModel) jumpTo(name string) {
	b, ok := m.editor.Layout().Box(name)
	if !ok {
		return
	}
	m.selected = name
	m.ensureVisible(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

func (m *chartModel) centerOn(name string) {
	b, ok := m.editor.Layout().Box(name)
	if !ok {
		return
	}
	vp := m.viewport()
	m.panX = b.X + b.Width/2 - vp.Width/2
	m.panY = b.Y - cellHeight
}

// ensureVisible pans the least needed to show the rectangle, favoring its
// top-left corner when it does not fit.
func (m *chartModel) ensureVisible(x0, y0, x1, y1 float64) {
	vp := m.viewport()
	if x1 > m.panX+vp.Width {
		m.panX = x1 - vp.Width
	}
	if y1 > m.panY+vp.Height {
		m.panY = y1 - vp.Height
	}
	if x0 < m.panX {
		m.panX = x0
	}
	if y0 < m.panY {
		m.panY = y0
	}
}

// applyPan scrolls the view. A dragged office moves with the view so it
// stays under the pointer; the auto-panner stops once the view hits the
// chart's edge.
func (m *chartModel) applyPan(dx, dy float64) {
	oldX, oldY := m.panX, m.panY
	m.panX += dx
	m.panY += dy
	m.clampPan()

	moved := layout.Point{X: m.panX - oldX, Y: m.panY - oldY}
	if m.dragging() {
		m.drag.MoveBy(moved.X, moved.Y)
	}
	if moved.X == 0 && moved.Y == 0 {
		m.panner.Stop()
	}
}

func (m *chartModel) clampPan() {
	b := m.editor.Layout().Bounds()
	vp := m.viewport()

	minX, minY := b.MinX-chartMargin, b.MinY-cellHeight
	maxX := max(b.MaxX+chartMargin-vp.Width, minX)
	maxY := max(b.MaxY+cellHeight-vp.Height, minY)

	m.panX = min(max(m.panX, minX), maxX)
	m.panY = min(max(m.panY, minY), maxY)
}

func (m *chartModel) showPanel() bool { return m.width >= minPanelWidth }

func (m *chartModel) chartCols() int {
	if m.showPanel() {
		return max(m.width-panelWidth, 0)
	}
	return max(m.width, 0)
}

func (m *chartModel) footerLines() int {
	return 2 + lipgloss.Height(m.helpView())
}

func (m *chartModel) chartRows() int {
	return max(m.height-headerLines-m.footerLines(), 0)
}

func (m *chartModel) viewport() interact.Viewport {
	return interact.Viewport{
		X:      m.panX,
		Y:      m.panY,
		Width:  float64(m.chartCols()) * cellWidth,
		Height: float64(m.chartRows()) * cellHeight,
	}
}

func (m *chartModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *chartModel) setError(s string) {
	m.status, m.statusErr = s, true
	m.logger.Warn("chart error", "message", s)
}
