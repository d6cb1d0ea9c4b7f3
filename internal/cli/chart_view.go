package cli

import (
	"strings"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/charmbracelet/lipgloss"
)

func (m *chartModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader(), m.renderBody(), m.renderFooter()}
	return strings.Join(sections, "\n")
}

func (m *chartModel) renderHeader() string {
	title := formatter.StylePurple.Render("orgchart")
	if root := m.editor.Root(); root != nil {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(root.Name)
	}

	right := formatter.ModeBadge(string(m.editor.Mode())) + "  " +
		availability("undo", m.editor.CanUndo()) + " " + availability("redo", m.editor.CanRedo())
	if m.closed {
		right = formatter.StyleRed.Render("offline") + "  " + right
	}

	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(right), 2)
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return title + strings.Repeat(" ", gap) + right + "\n" + sep
}

func availability(label string, ok bool) string {
	if ok {
		return formatter.StyleGreen.Render(label)
	}
	return formatter.Dim(label)
}

func (m *chartModel) renderBody() string {
	rows := m.chartRows()

	var chart string
	if !m.loaded {
		chart = lipgloss.NewStyle().Width(m.chartCols()).Height(rows).Render(formatter.Dim("  Loading organization…"))
	} else {
		scene := chartScene{
			root:     m.editor.Root(),
			layout:   m.editor.Layout(),
			originX:  m.panX,
			originY:  m.panY,
			cols:     m.chartCols(),
			rows:     rows,
			selected: m.selected,
		}
		if m.dragging() {
			scene.dragged = m.drag.Dragged()
			scene.candidate, _ = m.drag.Candidate()
			p := m.drag.Position()
			scene.ghost = &p
		}
		chart = renderChart(scene)
	}

	if !m.showPanel() {
		return chart
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chart, m.renderPanel(rows))
}

func (m *chartModel) renderPanel(rows int) string {
	inner := panelWidth - 2

	var b strings.Builder
	if n := m.selectedNode(); n != nil {
		parent := ""
		if p := m.editor.Root().ParentOf(n); p != nil {
			parent = p.Name
		}
		b.WriteString(formatter.FormatOffice(n, parent))
	}

	if m.searching || m.query != "" {
		b.WriteString("\n" + formatter.Header("Search "+string(m.category)) + "\n")
		if m.searching {
			b.WriteString(m.input.View() + "\n")
		} else {
			b.WriteString(formatter.Dim("“"+m.query+"”") + "\n")
		}
		for i, h := range m.hits {
			cursor := "  "
			if i == m.hitCursor {
				cursor = formatter.StyleHeader.Render("› ")
			}
			b.WriteString(cursor + h.label + "\n")
		}
	}

	content := lipgloss.NewStyle().MaxWidth(inner).Render(strings.TrimRight(b.String(), "\n"))
	m.panel.Width = inner
	m.panel.Height = rows
	m.panel.SetContent(content)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(formatter.ColorDim).
		PaddingLeft(1).
		Render(m.panel.View())
}

func (m *chartModel) helpView() string {
	if m.dragging() {
		return m.help.ShortHelpView(m.keys.dragHelp())
	}
	return m.help.View(m.keys)
}

func (m *chartModel) renderFooter() string {
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))

	status := m.status
	if m.statusErr {
		status = formatter.StyleRed.Render(status)
	} else {
		status = formatter.Dim(status)
	}
	return sep + "\n" + status + "\n" + m.helpView()
}
