package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/orgchart/internal/db"
)

// hierarchyColumns is the canonical SELECT column list for hierarchy rows
// joined with their parent (alias p).
const hierarchyColumns = `h.node_id, h.name, h.parent_id, COALESCE(p.name, '')`

// HierarchyRow is one office row with its parent's name resolved.
type HierarchyRow struct {
	ID       int64
	Name     string
	ParentID *int64
	Parent   string
}

// SQLiteHierarchyRepo implements HierarchyRepo using a SQLite database.
type SQLiteHierarchyRepo struct {
	db db.DBTX
}

// NewSQLiteHierarchyRepo creates a new SQLiteHierarchyRepo.
func NewSQLiteHierarchyRepo(conn db.DBTX) *SQLiteHierarchyRepo {
	return &SQLiteHierarchyRepo{db: conn}
}

// Insert adds an office under the office called parent. An empty parent
// inserts a root row. The parent must already exist.
func (r *SQLiteHierarchyRepo) Insert(ctx context.Context, name, parent string) (int64, error) {
	var parentID *int64
	if parent != "" {
		id, err := r.IDByName(ctx, parent)
		if err != nil {
			return 0, fmt.Errorf("resolving parent of %q: %w", name, err)
		}
		parentID = &id
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hierarchy (name, parent_id) VALUES (?, ?)`,
		name, parentArg(parentID))
	if err != nil {
		return 0, fmt.Errorf("inserting office %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading id of office %q: %w", name, err)
	}
	return id, nil
}

func (r *SQLiteHierarchyRepo) IDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT node_id FROM hierarchy WHERE name = ? ORDER BY node_id LIMIT 1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("office %q: %w", name, ErrNotFound)
		}
		return 0, fmt.Errorf("looking up office %q: %w", name, err)
	}
	return id, nil
}

func (r *SQLiteHierarchyRepo) GetByID(ctx context.Context, id int64) (*HierarchyRow, error) {
	query := `SELECT ` + hierarchyColumns + `
		FROM hierarchy AS h LEFT JOIN hierarchy AS p ON p.node_id = h.parent_id
		WHERE h.node_id = ?`
	row, err := scanHierarchyRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("office %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning office: %w", err)
	}
	return &row, nil
}

// List returns every office ordered by id, which is insertion order.
func (r *SQLiteHierarchyRepo) List(ctx context.Context) ([]HierarchyRow, error) {
	query := `SELECT ` + hierarchyColumns + `
		FROM hierarchy AS h LEFT JOIN hierarchy AS p ON p.node_id = h.parent_id
		ORDER BY h.node_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing offices: %w", err)
	}
	return collect(rows, "office rows", scanHierarchyRow)
}

func (r *SQLiteHierarchyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hierarchy`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting offices: %w", err)
	}
	return n, nil
}

// SetParent moves a single row under parentID. Its children move with it.
func (r *SQLiteHierarchyRepo) SetParent(ctx context.Context, id, parentID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE hierarchy SET parent_id = ? WHERE node_id = ?`, parentID, id); err != nil {
		return fmt.Errorf("reparenting office %d: %w", id, err)
	}
	return nil
}

// PromoteChildren re-attaches every child of id to id's own parent.
func (r *SQLiteHierarchyRepo) PromoteChildren(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hierarchy SET parent_id = (SELECT parent_id FROM hierarchy WHERE node_id = ?)
		WHERE parent_id = ?`, id, id)
	if err != nil {
		return fmt.Errorf("promoting children of office %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteHierarchyRepo) SetName(ctx context.Context, id int64, name string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE hierarchy SET name = ? WHERE node_id = ?`, name, id); err != nil {
		return fmt.Errorf("renaming office %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every office. Positions go with them through the
// foreign-key cascade.
func (r *SQLiteHierarchyRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM hierarchy`); err != nil {
		return fmt.Errorf("deleting offices: %w", err)
	}
	return nil
}
