// Package export renders the organization chart to a vector PDF.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

const (
	// Margin around the chart, in chart units.
	Margin = 50.0

	// maxPageSide is the largest page side PDF readers reliably accept, in points.
	maxPageSide = 14400.0

	nameFontSize     = 28.0
	summaryFontSize  = 18.0
	positionFontSize = 16.0
)

type options struct {
	title    string
	compress bool
}

// Option configures WritePDF.
type Option func(*options)

// WithTitle sets the document title. Defaults to the root office name.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithCompression toggles content stream compression (on by default).
func WithCompression(on bool) Option {
	return func(o *options) { o.compress = on }
}

// WritePDF draws root as laid out by l on a single page sized to the chart.
// A nil l is computed from root. Charts larger than a PDF page allows are
// scaled down uniformly.
func WritePDF(root *domain.Node, l *layout.Layout, w io.Writer, opts ...Option) error {
	if root == nil {
		return fmt.Errorf("exporting chart: empty organization")
	}
	if l == nil {
		l = layout.Compute(root)
	}
	o := options{title: root.Name, compress: true}
	for _, opt := range opts {
		opt(&o)
	}

	bounds := l.Bounds()
	width := bounds.Width() + 2*Margin
	height := bounds.Height() + 2*Margin
	scale := math.Min(1, math.Min(maxPageSide/width, maxPageSide/height))

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width * scale, Ht: height * scale},
	})
	pdf.SetCompression(o.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(o.title, true)
	pdf.SetCreator("orgchart", true)
	pdf.AddPage()

	c := &canvas{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		scale: scale,
		dx:    Margin - bounds.MinX,
		dy:    Margin - bounds.MinY,
	}

	c.connectors(root, l)
	root.Walk(func(n, _ *domain.Node, _ int) bool {
		if b, ok := l.Box(n.Name); ok {
			c.box(n, b)
		}
		return true
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing chart pdf: %w", err)
	}
	return nil
}

type canvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	scale  float64
	dx, dy float64
}

func (c *canvas) x(v float64) float64 { return (v + c.dx) * c.scale }
func (c *canvas) y(v float64) float64 { return (v + c.dy) * c.scale }
func (c *canvas) s(v float64) float64 { return v * c.scale }

// connectors draws an elbow from each parent's bottom edge to the top of
// every child.
func (c *canvas) connectors(root *domain.Node, l *layout.Layout) {
	c.pdf.SetDrawColor(120, 120, 120)
	c.pdf.SetLineWidth(c.s(3))

	root.Walk(func(n, parent *domain.Node, _ int) bool {
		if parent == nil {
			return true
		}
		pb, ok := l.Box(parent.Name)
		if !ok {
			return true
		}
		cb, ok := l.Box(n.Name)
		if !ok {
			return true
		}
		from := layout.Point{X: pb.X + pb.Width/2, Y: pb.Y + pb.Height}
		to := cb.Anchor()
		midY := (from.Y + to.Y) / 2

		c.pdf.Line(c.x(from.X), c.y(from.Y), c.x(from.X), c.y(midY))
		c.pdf.Line(c.x(from.X), c.y(midY), c.x(to.X), c.y(midY))
		c.pdf.Line(c.x(to.X), c.y(midY), c.x(to.X), c.y(to.Y))
		return true
	})
}

func (c *canvas) box(n *domain.Node, b layout.Box) {
	pdf := c.pdf

	pdf.SetDrawColor(40, 40, 40)
	pdf.SetFillColor(255, 255, 255)
	pdf.SetLineWidth(c.s(2))
	pdf.Rect(c.x(b.X), c.y(b.Y), c.s(b.Width), c.s(b.Height), "FD")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", c.s(nameFontSize))
	pdf.SetXY(c.x(b.X), c.y(b.Y+20))
	pdf.CellFormat(c.s(b.Width), c.s(40), c.tr(n.Name), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", c.s(summaryFontSize))
	pdf.SetX(c.x(b.X))
	noun := "positions"
	if len(n.Positions) == 1 {
		noun = "position"
	}
	summary := fmt.Sprintf("%d %s, %s FTE", len(n.Positions), noun, formatFTE(n.TotalFTE()))
	pdf.CellFormat(c.s(b.Width), c.s(30), c.tr(summary), "", 1, "C", false, 0, "")

	// The list starts below the fixed header area so it lines up with the
	// PositionHeight rows layout reserved.
	pdf.SetFont("Helvetica", "", c.s(positionFontSize))
	for i, p := range n.Positions {
		line := fmt.Sprintf("%s  %s", p.Title, formatFTE(p.FTE))
		if p.IdeaFunded {
			line += "  (IDEA)"
		}
		pdf.SetXY(c.x(b.X+20), c.y(b.Y+layout.BaseHeight+float64(i)*layout.PositionHeight-10))
		pdf.CellFormat(c.s(b.Width-40), c.s(layout.PositionHeight), c.tr(line), "", 0, "L", false, 0, "")
	}
}

func formatFTE(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
