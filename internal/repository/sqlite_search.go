package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/orgchart/internal/db"
)

// OfficeResult is an office search hit.
type OfficeResult struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

// PositionResult is a position search hit.
type PositionResult struct {
	Title      string  `json:"title"`
	FTE        float64 `json:"fte"`
	Office     string  `json:"office"`
	IdeaFunded bool    `json:"ideaFunded"`
}

// SQLiteSearchRepo runs full-text queries against the FTS5 indexes.
type SQLiteSearchRepo struct {
	db db.DBTX
}

// NewSQLiteSearchRepo creates a new SQLiteSearchRepo.
func NewSQLiteSearchRepo(conn db.DBTX) *SQLiteSearchRepo {
	return &SQLiteSearchRepo{db: conn}
}

// matchExpression turns free text into an FTS5 query: every whitespace
// separated token becomes a quoted prefix match and all must match.
// Quotes inside a token are doubled so user input cannot alter the syntax.
func matchExpression(query string) string {
	tokens := strings.Fields(query)
	for i, tok := range tokens {
		tokens[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"*`
	}
	return strings.Join(tokens, " AND ")
}

// Offices returns offices whose name matches query, best match first.
// A blank query matches nothing.
func (r *SQLiteSearchRepo) Offices(ctx context.Context, query string) ([]OfficeResult, error) {
	expr := matchExpression(query)
	if expr == "" {
		return []OfficeResult{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ft_hierarchy.name, COALESCE(p.name, '')
		FROM ft_hierarchy LEFT JOIN hierarchy AS p ON p.node_id = ft_hierarchy.parent_id
		WHERE ft_hierarchy MATCH ?
		ORDER BY rank`, expr)
	if err != nil {
		return nil, fmt.Errorf("searching offices: %w", err)
	}
	return collect(rows, "office results", scanOfficeResult)
}

// Positions returns positions whose title matches query, best match first.
// A blank query matches nothing.
func (r *SQLiteSearchRepo) Positions(ctx context.Context, query string) ([]PositionResult, error) {
	expr := matchExpression(query)
	if expr == "" {
		return []PositionResult{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ft_position.title, ft_position.fte, COALESCE(h.name, ''), ft_position.grant
		FROM ft_position LEFT JOIN hierarchy AS h ON h.node_id = ft_position.office_id
		WHERE ft_position MATCH ?
		ORDER BY rank`, expr)
	if err != nil {
		return nil, fmt.Errorf("searching positions: %w", err)
	}
	return collect(rows, "position results", scanPositionResult)
}
