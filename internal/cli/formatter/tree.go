package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a rendered tree.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Guide is the connector text drawn before the title, such as "│  └─ ".
	Guide  string
	Marker string
	Detail string
}

const (
	guideTee   = "├─ "
	guideElbow = "└─ "
	guideRail  = "│  "
	guideGap   = "   "
)

// connector returns the guide for a child drawn under indent and the indent
// that child's own children inherit.
func connector(indent string, last bool) (guide, next string) {
	if last {
		return indent + guideElbow, indent + guideGap
	}
	return indent + guideTee, indent + guideRail
}

// RenderTree writes one line per item. Detail badges line up in a column two
// cells after the widest line.
func RenderTree(items []TreeItem) string {
	heads := make([]string, len(items))
	col := 0
	for i, it := range items {
		title := it.Title
		if it.Level == 0 {
			title = StyleBold.Render(title)
		}
		if it.Marker != "" {
			title = it.Marker + " " + title
		}
		heads[i] = StyleDim.Render(it.Guide) + title
		col = max(col, lipgloss.Width(heads[i]))
	}

	var b strings.Builder
	for i, it := range items {
		b.WriteString(heads[i])
		if it.Detail != "" {
			b.WriteString(strings.Repeat(" ", col-lipgloss.Width(heads[i])+2))
			b.WriteString(StyleBlue.Render("[ " + it.Detail + " ]"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
