package workbook

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth   = 10
	fixedColumnWidth = 20
)

// Write exports the tree as an import-compatible workbook. Offices are
// written in pre-order so every parent precedes its children.
func Write(root *domain.Node, w io.Writer) error {
	wb := FromTree(root)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HierarchySheet); err != nil {
		return fmt.Errorf("naming hierarchy sheet: %w", err)
	}
	if _, err := f.NewSheet(PositionsSheet); err != nil {
		return fmt.Errorf("adding positions sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	hierarchy := [][]interface{}{toRow(hierarchyHeader)}
	nameWidth, parentWidth := minColumnWidth, minColumnWidth
	for _, h := range wb.Hierarchy {
		hierarchy = append(hierarchy, []interface{}{h.Name, h.Parent})
		nameWidth = max(nameWidth, len(h.Name))
		parentWidth = max(parentWidth, len(h.Parent))
	}

	positions := [][]interface{}{toRow(positionsHeader)}
	titleWidth, officeWidth := minColumnWidth, minColumnWidth
	for _, p := range wb.Positions {
		positions = append(positions, []interface{}{p.Title, p.FTE, p.Office, strconv.FormatBool(p.IdeaFunded)})
		titleWidth = max(titleWidth, len(p.Title))
		officeWidth = max(officeWidth, len(p.Office))
	}

	if err := writeSheet(f, HierarchySheet, hierarchy, header, []float64{
		float64(nameWidth), float64(parentWidth),
	}); err != nil {
		return err
	}
	if err := writeSheet(f, PositionsSheet, positions, header, []float64{
		float64(titleWidth), fixedColumnWidth, float64(officeWidth), fixedColumnWidth,
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, widths []float64) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(widths))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
