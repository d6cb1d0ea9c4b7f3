package workbook

import "github.com/alexanderramin/orgchart/internal/domain"

// Tree builds the organization described by a validated workbook.
// Call Validate first; Tree assumes every reference resolves.
func (wb *Workbook) Tree() *domain.Node {
	if len(wb.Hierarchy) == 0 {
		return nil
	}

	byName := make(map[string]*domain.Node, len(wb.Hierarchy))
	root := domain.NewNode(wb.Hierarchy[0].Name)
	byName[root.Name] = root

	for _, h := range wb.Hierarchy[1:] {
		byName[h.Name] = byName[h.Parent].AddChild(h.Name)
	}
	for _, p := range wb.Positions {
		byName[p.Office].AddPosition(p.Title, p.FTE, p.IdeaFunded)
	}
	return root
}

// FromTree flattens a tree into workbook rows in pre-order, the layout Write
// produces. Row numbers start below the header.
func FromTree(root *domain.Node) *Workbook {
	wb := &Workbook{}
	if root == nil {
		return wb
	}
	root.Walk(func(n, parent *domain.Node, _ int) bool {
		parentName := ""
		if parent != nil {
			parentName = parent.Name
		}
		wb.Hierarchy = append(wb.Hierarchy, HierarchyRow{Row: len(wb.Hierarchy) + 2, Name: n.Name, Parent: parentName})
		for _, p := range n.Positions {
			wb.Positions = append(wb.Positions, PositionRow{
				Row:        len(wb.Positions) + 2,
				Title:      p.Title,
				FTE:        p.FTE,
				Office:     n.Name,
				IdeaFunded: p.IdeaFunded,
			})
		}
		return true
	})
	return wb
}
