package service

import (
	"context"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
)

// HierarchyService applies organization edits to the persistent mirror and
// rebuilds the tree from it.
type HierarchyService interface {
	Reset(ctx context.Context, rootName string) (*domain.Node, error)
	Import(ctx context.Context, buf []byte) (*domain.Node, error)
	Move(ctx context.Context, dragged, target string, descendants bool) error
	Swap(ctx context.Context, dragged, target string) error
	LoadTree(ctx context.Context) (*domain.Node, error)
	Stats(ctx context.Context) (*Stats, error)
}

type SearchService interface {
	Offices(ctx context.Context, query string) ([]repository.OfficeResult, error)
	Positions(ctx context.Context, query string) ([]repository.PositionResult, error)
}

// Stats summarizes the stored organization.
type Stats struct {
	Offices   int
	Positions int
	TotalFTE  float64
	Funded    int
}

// TreeStats computes the same summary from an in-memory tree.
func TreeStats(root *domain.Node) *Stats {
	stats := &Stats{}
	if root == nil {
		return stats
	}
	root.Walk(func(n, _ *domain.Node, _ int) bool {
		stats.Offices++
		for _, p := range n.Positions {
			stats.Positions++
			stats.TotalFTE += p.FTE
			if p.IdeaFunded {
				stats.Funded++
			}
		}
		return true
	})
	return stats
}
