package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/service"
	"github.com/alexanderramin/orgchart/internal/workbook"
)

// OrgTreeItems flattens the organization into display rows in pre-order.
func OrgTreeItems(root *domain.Node) []TreeItem {
	if root == nil {
		return nil
	}
	var items []TreeItem
	var walk func(n *domain.Node, level int, last bool, guide, indent string)
	walk = func(n *domain.Node, level int, last bool, guide, indent string) {
		items = append(items, TreeItem{
			Title:  n.Name,
			Level:  level,
			IsLast: last,
			Guide:  guide,
			Marker: fundedMarker(n),
			Detail: officeDetail(n),
		})
		for i, c := range n.Children {
			end := i == len(n.Children)-1
			g, next := connector(indent, end)
			walk(c, level+1, end, g, next)
		}
	}
	walk(root, 0, true, "", "")
	return items
}

func fundedMarker(n *domain.Node) string {
	for _, p := range n.Positions {
		if p.IdeaFunded {
			return StylePurple.Render("◆")
		}
	}
	return ""
}

func officeDetail(n *domain.Node) string {
	if len(n.Positions) == 0 {
		return ""
	}
	return fmt.Sprintf("%s · %s FTE", Plural(len(n.Positions), "position", "positions"), FormatFTE(n.TotalFTE()))
}

// FormatOrgTree renders the whole organization with a summary line.
func FormatOrgTree(root *domain.Node) string {
	if root == nil {
		return Dim("No organization loaded.") + "\n"
	}

	offices, positions, fte := 0, 0, 0.0
	root.Walk(func(n, _ *domain.Node, _ int) bool {
		offices++
		positions += len(n.Positions)
		fte += n.TotalFTE()
		return true
	})

	var b strings.Builder
	b.WriteString(Header("Organization") + "\n")
	b.WriteString(RenderTree(OrgTreeItems(root)))
	b.WriteString("\n" + Dim(fmt.Sprintf("%s, %s, %s FTE",
		Plural(offices, "office", "offices"),
		Plural(positions, "position", "positions"),
		FormatFTE(fte))) + "\n")
	return b.String()
}

// FormatOffice lists one office's positions.
func FormatOffice(n *domain.Node, parent string) string {
	var b strings.Builder
	b.WriteString(Bold(n.Name) + "\n")
	if parent != "" {
		b.WriteString(Dim("reports to "+parent) + "\n")
	}
	if len(n.Positions) == 0 {
		b.WriteString(Dim("No positions.") + "\n")
		return b.String()
	}
	b.WriteString("\n")
	for _, p := range n.Positions {
		line := fmt.Sprintf("  %s  %s", p.Title, Dim(FormatFTE(p.FTE)+" FTE"))
		if p.IdeaFunded {
			line += "  " + FundedBadge(true)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func FormatOfficeResults(query string, results []repository.OfficeResult) string {
	if len(results) == 0 {
		return Dim(fmt.Sprintf("No offices match %q.", query)) + "\n"
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		parent := r.Parent
		if parent == "" {
			parent = Dim("(root)")
		}
		rows = append(rows, []string{r.Name, parent})
	}
	return RenderTable([]string{"OFFICE", "PARENT"}, rows)
}

func FormatPositionResults(query string, results []repository.PositionResult) string {
	if len(results) == 0 {
		return Dim(fmt.Sprintf("No positions match %q.", query)) + "\n"
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Title, FormatFTE(r.FTE), r.Office, FundedBadge(r.IdeaFunded)})
	}
	return RenderTable([]string{"TITLE", "FTE", "OFFICE", "IDEA"}, rows, 1)
}

// FormatMissingData lists the rejected rows of each sheet with their raw cells.
func FormatMissingData(m *workbook.MissingData) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render("Some rows are missing data. Nothing was imported.") + "\n")

	sheets := []struct {
		name string
		rows []workbook.RowReport
	}{
		{workbook.HierarchySheet, m.Hierarchy},
		{workbook.PositionsSheet, m.Positions},
	}
	for _, s := range sheets {
		if len(s.rows) == 0 {
			continue
		}
		b.WriteString("\n" + Header(s.name+" sheet") + "\n")
		rows := make([][]string, 0, len(s.rows))
		for _, r := range s.rows {
			cells := make([]string, 0, len(r.Data))
			for _, c := range r.Data {
				if c == "" {
					c = StyleRed.Render("∅")
				}
				cells = append(cells, c)
			}
			rows = append(rows, []string{strconv.Itoa(r.Row), strings.Join(cells, Dim(" | "))})
		}
		b.WriteString(RenderTable([]string{"ROW", "CELLS"}, rows, 0))
	}
	return b.String()
}

// FormatStats summarizes the stored organization in a box.
func FormatStats(s *service.Stats) string {
	share := 0.0
	if s.Positions > 0 {
		share = float64(s.Funded) / float64(s.Positions)
	}
	lines := []string{
		fmt.Sprintf("%-12s %d", "Offices", s.Offices),
		fmt.Sprintf("%-12s %d", "Positions", s.Positions),
		fmt.Sprintf("%-12s %s", "Total FTE", FormatFTE(s.TotalFTE)),
		fmt.Sprintf("%-12s %s", "IDEA funded", RenderShare(share, 20)),
	}
	return RenderBox("Organization", strings.Join(lines, "\n"))
}
