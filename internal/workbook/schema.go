// Package workbook reads and writes the two-sheet spreadsheet format used to
// import and export an organization.
package workbook

import (
	"fmt"
	"strings"
)

const (
	HierarchySheet = "Hierarchy"
	PositionsSheet = "Positions"
)

var (
	hierarchyHeader = []string{"Name", "Parent"}
	positionsHeader = []string{"Title", "Full-Time Equivalent", "Office", "IDEA Grant Funded"}
)

const (
	msgUnreadable    = "Could not open workbook. Verify that the file is not corrupted by opening it in Excel or Google Sheets."
	msgMissingSheets = "Data could not be found. Make sure that your spreadsheet has a Hierarchy sheet and a Positions sheet."
	msgInvalidData   = "The workbook's offices do not form a single organization."
)

// Workbook is a parsed import file. Hierarchy rows are in sheet order; the
// first one is the root office.
type Workbook struct {
	Hierarchy []HierarchyRow
	Positions []PositionRow
}

// HierarchyRow is one office row. Row is the 1-based sheet row number.
type HierarchyRow struct {
	Row    int
	Name   string
	Parent string
}

// PositionRow is one position row. Row is the 1-based sheet row number.
type PositionRow struct {
	Row        int
	Title      string
	FTE        float64
	Office     string
	IdeaFunded bool
}

// RowReport identifies a sheet row that could not be read, with its raw cells.
type RowReport struct {
	Row  int      `json:"row"`
	Data []string `json:"data"`
}

// MissingData lists the rows of each sheet with missing or unreadable cells.
// Nothing is imported while any are present.
type MissingData struct {
	Hierarchy []RowReport `json:"hierarchy"`
	Positions []RowReport `json:"positions"`
}

func (m *MissingData) Empty() bool {
	return len(m.Hierarchy) == 0 && len(m.Positions) == 0
}

func (m *MissingData) Error() string {
	return fmt.Sprintf("workbook has incomplete rows: %d in %s, %d in %s",
		len(m.Hierarchy), HierarchySheet, len(m.Positions), PositionsSheet)
}

// StructureError reports a workbook that cannot be imported as a whole: it is
// unreadable, lacks a required sheet, or its rows do not describe one tree.
type StructureError struct {
	Message  string
	Problems []error
}

func (e *StructureError) Error() string {
	if len(e.Problems) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Error())
	}
	return e.Message + " " + strings.Join(parts, "; ")
}

func (e *StructureError) Unwrap() []error {
	return e.Problems
}
