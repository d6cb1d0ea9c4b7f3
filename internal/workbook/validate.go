package workbook

import "fmt"

// Validate checks that the rows describe a single tree: one root, unique
// office names, every parent declared on an earlier row and every position
// attached to a known office. Returns all problems found.
func Validate(wb *Workbook) []error {
	var errs []error

	if len(wb.Hierarchy) == 0 {
		return append(errs, fmt.Errorf("%s sheet has no offices", HierarchySheet))
	}

	offices := make(map[string]bool, len(wb.Hierarchy))
	for i, h := range wb.Hierarchy {
		prefix := fmt.Sprintf("%s row %d", HierarchySheet, h.Row)

		if offices[h.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate office %q", prefix, h.Name))
		}
		if i > 0 && !offices[h.Parent] {
			errs = append(errs, fmt.Errorf("%s: parent %q of %q not found (must appear on an earlier row)", prefix, h.Parent, h.Name))
		}
		offices[h.Name] = true
	}

	for _, p := range wb.Positions {
		if !offices[p.Office] {
			errs = append(errs, fmt.Errorf("%s row %d: office %q of %q not found", PositionsSheet, p.Row, p.Office, p.Title))
		}
	}

	return errs
}
