package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/orgchart/internal/db"
	"github.com/alexanderramin/orgchart/internal/domain"
)

// positionColumns is the canonical SELECT column list for position rows
// joined with their office (alias h).
const positionColumns = `p.position_id, p.title, p.fte, p.office_id, h.name, p.grant`

// PositionRow is one position row with its office name resolved.
type PositionRow struct {
	ID         int64
	Title      string
	FTE        float64
	OfficeID   int64
	Office     string
	IdeaFunded bool
}

// Position converts the row to the in-memory value.
func (p PositionRow) Position() domain.Position {
	return domain.Position{Title: p.Title, FTE: p.FTE, IdeaFunded: p.IdeaFunded}
}

// SQLitePositionRepo implements PositionRepo using a SQLite database.
type SQLitePositionRepo struct {
	db db.DBTX
}

// NewSQLitePositionRepo creates a new SQLitePositionRepo.
func NewSQLitePositionRepo(conn db.DBTX) *SQLitePositionRepo {
	return &SQLitePositionRepo{db: conn}
}

// Insert attaches a position to the office called office.
func (r *SQLitePositionRepo) Insert(ctx context.Context, p domain.Position, office string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO position (title, fte, office_id, grant)
		SELECT ?, ?, node_id, ? FROM hierarchy WHERE name = ? ORDER BY node_id LIMIT 1`,
		p.Title, p.FTE, grantArg(p.IdeaFunded), office)
	if err != nil {
		return fmt.Errorf("inserting position %q: %w", p.Title, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting position %q: %w", p.Title, err)
	}
	if n == 0 {
		return fmt.Errorf("office %q of position %q: %w", office, p.Title, ErrNotFound)
	}
	return nil
}

// List returns every position in insertion order.
func (r *SQLitePositionRepo) List(ctx context.Context) ([]PositionRow, error) {
	query := `SELECT ` + positionColumns + `
		FROM position AS p JOIN hierarchy AS h ON h.node_id = p.office_id
		ORDER BY p.position_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	return collect(rows, "position rows", scanPositionRow)
}

// ListByOffice groups every position by office id.
func (r *SQLitePositionRepo) ListByOffice(ctx context.Context) (map[int64][]domain.Position, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]domain.Position)
	for _, p := range rows {
		out[p.OfficeID] = append(out[p.OfficeID], p.Position())
	}
	return out, nil
}

// SwapOffices exchanges the office of every position attached to a or b.
func (r *SQLitePositionRepo) SwapOffices(ctx context.Context, a, b int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE position SET office_id = CASE office_id WHEN ? THEN ? ELSE ? END
		WHERE office_id IN (?, ?)`, a, b, a, a, b)
	if err != nil {
		return fmt.Errorf("swapping positions of offices %d and %d: %w", a, b, err)
	}
	return nil
}

func (r *SQLitePositionRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM position`); err != nil {
		return fmt.Errorf("deleting positions: %w", err)
	}
	return nil
}
