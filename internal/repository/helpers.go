package repository

import (
	"database/sql"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect scans every row with scan. what names the rows in errors.
func collect[T any](rows *sql.Rows, what string, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return out, nil
}

// scanHierarchyRow reads hierarchyColumns.
func scanHierarchyRow(s rowScanner) (HierarchyRow, error) {
	var row HierarchyRow
	var parentID sql.NullInt64
	if err := s.Scan(&row.ID, &row.Name, &parentID, &row.Parent); err != nil {
		return HierarchyRow{}, err
	}
	if parentID.Valid {
		id := parentID.Int64
		row.ParentID = &id
	}
	return row, nil
}

// scanPositionRow reads positionColumns.
func scanPositionRow(s rowScanner) (PositionRow, error) {
	var p PositionRow
	var grant int
	if err := s.Scan(&p.ID, &p.Title, &p.FTE, &p.OfficeID, &p.Office, &grant); err != nil {
		return PositionRow{}, err
	}
	p.IdeaFunded = grant != 0
	return p, nil
}

func scanOfficeResult(s rowScanner) (OfficeResult, error) {
	var o OfficeResult
	err := s.Scan(&o.Name, &o.Parent)
	return o, err
}

func scanPositionResult(s rowScanner) (PositionResult, error) {
	var p PositionResult
	var grant int
	if err := s.Scan(&p.Title, &p.FTE, &p.Office, &grant); err != nil {
		return PositionResult{}, err
	}
	p.IdeaFunded = grant != 0
	return p, nil
}

// parentArg is the parent_id bind value: NULL for the root.
func parentArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// grantArg stores the IDEA grant flag as 0 or 1.
func grantArg(funded bool) int {
	if funded {
		return 1
	}
	return 0
}
