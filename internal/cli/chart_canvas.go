package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/layout"
	"github.com/charmbracelet/lipgloss"
)

// One terminal cell covers cellWidth x cellHeight chart units, so a box is
// 25 columns wide with 21 for text, and each listed position adds one row.
const (
	cellWidth  = 20.0
	cellHeight = layout.PositionHeight
)

type cellStyle uint8

const (
	styleBlank cellStyle = iota
	styleLine
	styleBorder
	styleName
	styleDetail
	styleFunded
	styleSelected
	styleCandidate
	styleGhost
	styleOrigin
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleLine:      formatter.StyleDim,
	styleBorder:    formatter.StyleFg,
	styleName:      formatter.StyleBold,
	styleDetail:    formatter.StyleDim,
	styleFunded:    formatter.StylePurple,
	styleSelected:  lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true),
	styleCandidate: lipgloss.NewStyle().Foreground(formatter.ColorGreen).Bold(true),
	styleGhost:     formatter.StyleYellowBold,
	styleOrigin:    formatter.StyleDim,
}

// chartScene is everything needed to draw one frame of the chart.
type chartScene struct {
	root   *domain.Node
	layout *layout.Layout

	// Origin is the chart point at the top-left cell.
	originX, originY float64
	cols, rows       int

	selected  string
	candidate string
	dragged   string
	// ghost is the dragged office's anchor while a drag is active.
	ghost *layout.Point
}

type canvas struct {
	cols, rows int
	ox, oy     float64
	runes      []rune
	styles     []cellStyle
}

func newCanvas(cols, rows int, ox, oy float64) *canvas {
	c := &canvas{cols: cols, rows: rows, ox: ox, oy: oy}
	c.runes = make([]rune, cols*rows)
	c.styles = make([]cellStyle, cols*rows)
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) cell(x, y float64) (col, row int) {
	return int(math.Floor((x - c.ox) / cellWidth)), int(math.Floor((y - c.oy) / cellHeight))
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *canvas) set(col, row int, r rune, st cellStyle) {
	if !c.inside(col, row) {
		return
	}
	c.runes[row*c.cols+col] = r
	c.styles[row*c.cols+col] = st
}

func (c *canvas) get(col, row int) rune {
	if !c.inside(col, row) {
		return ' '
	}
	return c.runes[row*c.cols+col]
}

func (c *canvas) text(col, row int, s string, st cellStyle) {
	for _, r := range s {
		c.set(col, row, r, st)
		col++
	}
}

// line draws a connector cell, joining crossings.
func (c *canvas) line(col, row int, r rune) {
	switch cur := c.get(col, row); {
	case cur == r:
		return
	case (cur == '─' && r == '│') || (cur == '│' && r == '─') || cur == '┼':
		r = '┼'
	}
	c.set(col, row, r, styleLine)
}

func (c *canvas) hline(c0, c1, row int) {
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	for col := c0; col <= c1; col++ {
		c.line(col, row, '─')
	}
}

func (c *canvas) vline(col, r0, r1 int) {
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	for row := r0; row <= r1; row++ {
		c.line(col, row, '│')
	}
}

// frame draws a rounded border. An opaque frame also blanks its interior.
func (c *canvas) frame(col, row, w, h int, st cellStyle, opaque bool) {
	for x := col; opaque && x < col+w; x++ {
		for y := row; y < row+h; y++ {
			c.set(x, y, ' ', styleBlank)
		}
	}
	right, bottom := col+w-1, row+h-1
	c.rule(col+1, right-1, row, st)
	c.rule(col+1, right-1, bottom, st)
	for y := row + 1; y < bottom; y++ {
		c.set(col, y, '│', st)
		c.set(right, y, '│', st)
	}
	c.set(col, row, '╭', st)
	c.set(right, row, '╮', st)
	c.set(col, bottom, '╰', st)
	c.set(right, bottom, '╯', st)
}

func (c *canvas) rule(c0, c1, row int, st cellStyle) {
	for col := c0; col <= c1; col++ {
		c.set(col, row, '─', st)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		start := row * c.cols
		runStart := start
		for i := start; i <= start+c.cols; i++ {
			if i < start+c.cols && c.styles[i] == c.styles[runStart] {
				continue
			}
			seg := string(c.runes[runStart:i])
			if st, ok := cellStyles[c.styles[runStart]]; ok {
				seg = st.Render(seg)
			}
			b.WriteString(seg)
			runStart = i
		}
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderChart draws connectors first and boxes over them, then the dragged
// office's ghost on top. The ghost is see-through so the origin box stays
// readable beneath it.
func renderChart(s chartScene) string {
	if s.cols <= 0 || s.rows <= 0 {
		return ""
	}
	c := newCanvas(s.cols, s.rows, s.originX, s.originY)
	if s.root == nil || s.layout == nil {
		return c.String()
	}

	s.root.Walk(func(n, _ *domain.Node, _ int) bool {
		drawConnectors(c, s.layout, n)
		return true
	})

	s.root.Walk(func(n, _ *domain.Node, _ int) bool {
		b, ok := s.layout.Box(n.Name)
		if !ok {
			return true
		}
		st := styleBorder
		switch n.Name {
		case s.dragged:
			st = styleOrigin
		case s.candidate:
			st = styleCandidate
		case s.selected:
			st = styleSelected
		}
		drawBox(c, n, b, st)
		return true
	})

	if s.ghost != nil {
		if n := s.root.Find(s.dragged); n != nil {
			w, h := layout.NodeSize(n)
			ghost := layout.Box{Name: n.Name, X: s.ghost.X - w/2, Y: s.ghost.Y, Width: w, Height: h}
			drawBox(c, n, ghost, styleGhost)
		}
	}

	return c.String()
}

func drawConnectors(c *canvas, l *layout.Layout, parent *domain.Node) {
	if len(parent.Children) == 0 {
		return
	}
	pb, ok := l.Box(parent.Name)
	if !ok {
		return
	}

	down := map[int]bool{}
	childTop := math.Inf(1)
	for _, child := range parent.Children {
		cb, ok := l.Box(child.Name)
		if !ok {
			continue
		}
		a := cb.Anchor()
		col, _ := c.cell(a.X, a.Y)
		down[col] = true
		childTop = math.Min(childTop, cb.Y)
	}
	if len(down) == 0 {
		return
	}

	pa := pb.Anchor()
	pcol, pbottom := c.cell(pa.X, pb.Y+pb.Height)
	_, busRow := c.cell(pa.X, childTop-layout.VerticalGap/2)
	_, topRow := c.cell(pa.X, childTop)

	c.vline(pcol, pbottom, busRow-1)
	lo, hi := pcol, pcol
	for col := range down {
		lo, hi = min(lo, col), max(hi, col)
		c.vline(col, busRow+1, topRow-1)
	}
	if lo < hi {
		c.hline(lo, hi, busRow)
	}
	c.set(pcol, busRow, junction(true, down[pcol], pcol > lo, pcol < hi), styleLine)
	for col := range down {
		if col != pcol {
			c.set(col, busRow, junction(false, true, col > lo, col < hi), styleLine)
		}
	}
}

// junction picks the box-drawing rune joining the given directions.
func junction(up, down, left, right bool) rune {
	switch {
	case up && down && left && right:
		return '┼'
	case up && down && left:
		return '┤'
	case up && down && right:
		return '├'
	case up && left && right:
		return '┴'
	case down && left && right:
		return '┬'
	case up && left:
		return '┘'
	case up && right:
		return '└'
	case down && left:
		return '┐'
	case down && right:
		return '┌'
	case left || right:
		return '─'
	}
	return '│'
}

// boxPadding is the blank cells between a box border and its text.
const boxPadding = 1

// boxSummary counts positions and FTE, dropping to a compact form when the
// full one is wider than width.
func boxSummary(n *domain.Node, width int) string {
	fte := formatter.FormatFTE(n.TotalFTE()) + " FTE"
	full := formatter.Plural(len(n.Positions), "position", "positions") + " · " + fte
	if lipgloss.Width(full) <= width {
		return full
	}
	return formatter.Truncate(strconv.Itoa(len(n.Positions))+" pos · "+fte, width)
}

func drawBox(c *canvas, n *domain.Node, b layout.Box, border cellStyle) {
	col, row := c.cell(b.X, b.Y)
	w := int(b.Width / cellWidth)
	h := int(math.Round(b.Height / cellHeight))
	c.frame(col, row, w, h, border, border != styleGhost)

	left := col + 1 + boxPadding
	inner := w - 2 - 2*boxPadding
	nameStyle := styleName
	if border == styleOrigin {
		nameStyle = styleOrigin
	}
	c.text(left, row+1, formatter.Truncate(n.Name, inner), nameStyle)
	c.text(left, row+2, boxSummary(n, inner), styleDetail)

	for i, p := range n.Positions {
		y := row + 3 + i
		if y >= row+h-1 {
			break
		}
		fte := formatter.FormatFTE(p.FTE)
		st := styleDetail
		if p.IdeaFunded {
			st = styleFunded
		}
		c.text(left, y, formatter.Truncate(p.Title, inner-len(fte)-1), st)
		c.text(left+inner-len(fte), y, fte, st)
	}
}
