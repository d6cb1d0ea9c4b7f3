package workbook

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse reads an import workbook.
//
// Errors are returned as *StructureError when the file cannot be used at all
// and as *MissingData when individual rows have missing or unreadable cells.
// Entirely blank rows are skipped.
func Parse(buf []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &StructureError{Message: msgUnreadable}
	}
	defer f.Close()

	hierarchyRows, err := sheetRows(f, HierarchySheet)
	if err != nil {
		return nil, err
	}
	positionRows, err := sheetRows(f, PositionsSheet)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{}
	missing := &MissingData{}

	first := true
	for i, cells := range hierarchyRows {
		if i == 0 || blank(cells) {
			continue
		}
		row := i + 1
		data := pad(cells, len(hierarchyHeader))

		// The root office is the first data row and may leave Parent empty.
		incomplete := data[0] == "" || (data[1] == "" && !first)
		if incomplete || filled(data[len(hierarchyHeader):]) > 0 {
			missing.Hierarchy = append(missing.Hierarchy, RowReport{Row: row, Data: data})
		} else {
			parent := data[1]
			if first {
				parent = ""
			}
			wb.Hierarchy = append(wb.Hierarchy, HierarchyRow{Row: row, Name: data[0], Parent: parent})
		}
		first = false
	}

	for i, cells := range positionRows {
		if i == 0 || blank(cells) {
			continue
		}
		row := i + 1
		data := pad(cells, len(positionsHeader))

		fte, fteErr := strconv.ParseFloat(data[1], 64)
		if filled(data) != len(positionsHeader) || filled(data[:len(positionsHeader)]) != len(positionsHeader) ||
			fteErr != nil || fte < 0 {
			missing.Positions = append(missing.Positions, RowReport{Row: row, Data: data})
			continue
		}
		wb.Positions = append(wb.Positions, PositionRow{
			Row:        row,
			Title:      data[0],
			FTE:        fte,
			Office:     data[2],
			IdeaFunded: strings.EqualFold(data[3], "true"),
		})
	}

	if !missing.Empty() {
		return nil, missing
	}
	if errs := Validate(wb); len(errs) > 0 {
		return nil, &StructureError{Message: msgInvalidData, Problems: errs}
	}
	return wb, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &StructureError{Message: msgMissingSheets}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &StructureError{Message: msgUnreadable}
	}
	return rows, nil
}

// pad trims every cell and extends the row to n cells. Cells past n are kept
// so the report shows what was actually there.
func pad(cells []string, n int) []string {
	size := n
	if len(cells) > size {
		size = len(cells)
	}
	out := make([]string, size)
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func filled(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
