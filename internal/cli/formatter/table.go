package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// RenderTable lays rows out under headers with a rule below the header line.
// Each column is as wide as its widest cell; columns named by index in
// rightAlign are right-aligned. The last column is never padded unless it is
// right-aligned.
func RenderTable(headers []string, rows [][]string, rightAlign ...int) string {
	if len(headers) == 0 {
		return ""
	}

	cols := make([]lipgloss.Style, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, lipgloss.Width(r[i]))
			}
		}
		cols[i] = lipgloss.NewStyle().Width(w)
		rules[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	padLast := false
	for _, i := range rightAlign {
		if i >= 0 && i < len(cols) {
			cols[i] = cols[i].Align(lipgloss.Right)
			padLast = padLast || i == len(cols)-1
		}
	}

	line := func(cells []string) string {
		out := make([]string, len(cols))
		for i := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i < len(cols)-1 || padLast {
				cell = cols[i].Render(cell)
			}
			out[i] = cell
		}
		return strings.Join(out, tableGap) + "\n"
	}

	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}

	var b strings.Builder
	b.WriteString(line(styled))
	b.WriteString(strings.Join(rules, tableGap) + "\n")
	for _, r := range rows {
		b.WriteString(line(r))
	}
	return b.String()
}
