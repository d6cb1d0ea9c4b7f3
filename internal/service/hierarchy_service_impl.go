package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/orgchart/internal/db"
	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/workbook"
)

// DefaultRootName names the root office of a fresh organization.
const DefaultRootName = "Division of Specialized Support Services"

type hierarchyService struct {
	offices   repository.HierarchyRepo
	positions repository.PositionRepo
	uow       db.UnitOfWork
	rootName  string
	observer  UseCaseObserver
}

// NewHierarchyService builds the service over non-transactional repos for reads
// and uow for every write. An empty rootName falls back to DefaultRootName.
func NewHierarchyService(
	offices repository.HierarchyRepo,
	positions repository.PositionRepo,
	uow db.UnitOfWork,
	rootName string,
	observers ...UseCaseObserver,
) HierarchyService {
	if rootName == "" {
		rootName = DefaultRootName
	}
	return &hierarchyService{
		offices:   offices,
		positions: positions,
		uow:       uow,
		rootName:  rootName,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *hierarchyService) observe(ctx context.Context, name string, startedAt time.Time, err error, attrs ...slog.Attr) {
	s.observer.ObserveUseCase(ctx, newEvent(name, startedAt, err, attrs...))
}

func (s *hierarchyService) Reset(ctx context.Context, rootName string) (root *domain.Node, err error) {
	if rootName == "" {
		rootName = s.rootName
	}
	startedAt := time.Now()
	defer func() { s.observe(ctx, "reset", startedAt, err, slog.String("root", rootName)) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		offices := repository.NewSQLiteHierarchyRepo(tx)
		if err := offices.DeleteAll(ctx); err != nil {
			return err
		}
		_, err := offices.Insert(ctx, rootName, "")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("resetting organization: %w", err)
	}
	return s.buildTree(ctx)
}

// Import replaces the stored organization with the workbook in buf. Parse
// failures are returned unwrapped as *workbook.StructureError or
// *workbook.MissingData and leave the store untouched.
func (s *hierarchyService) Import(ctx context.Context, buf []byte) (root *domain.Node, err error) {
	startedAt := time.Now()
	attrs := []slog.Attr{slog.Int("bytes", len(buf))}
	defer func() { s.observe(ctx, "import", startedAt, err, attrs...) }()

	wb, err := workbook.Parse(buf)
	if err != nil {
		return nil, err
	}
	attrs = append(attrs, slog.Int("offices", len(wb.Hierarchy)), slog.Int("positions", len(wb.Positions)))

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		offices := repository.NewSQLiteHierarchyRepo(tx)
		positions := repository.NewSQLitePositionRepo(tx)

		if err := offices.DeleteAll(ctx); err != nil {
			return err
		}
		for _, h := range wb.Hierarchy {
			if _, err := offices.Insert(ctx, h.Name, h.Parent); err != nil {
				return fmt.Errorf("importing %s row %d: %w", workbook.HierarchySheet, h.Row, err)
			}
		}
		for _, p := range wb.Positions {
			pos := domain.Position{Title: p.Title, FTE: p.FTE, IdeaFunded: p.IdeaFunded}
			if err := positions.Insert(ctx, pos, p.Office); err != nil {
				return fmt.Errorf("importing %s row %d: %w", workbook.PositionsSheet, p.Row, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing workbook: %w", err)
	}
	return s.buildTree(ctx)
}

// Move reparents dragged under target. With descendants set, target lies in
// dragged's subtree, so dragged's children are first handed to its parent.
func (s *hierarchyService) Move(ctx context.Context, dragged, target string, descendants bool) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "move", startedAt, err,
			slog.String("dragged", dragged), slog.String("target", target), slog.Bool("descendants", descendants))
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		offices := repository.NewSQLiteHierarchyRepo(tx)

		draggedID, err := offices.IDByName(ctx, dragged)
		if err != nil {
			return fmt.Errorf("moving %q: %w", dragged, err)
		}
		targetID, err := offices.IDByName(ctx, target)
		if err != nil {
			return fmt.Errorf("moving %q under %q: %w", dragged, target, err)
		}

		if descendants {
			if err := offices.PromoteChildren(ctx, draggedID); err != nil {
				return err
			}
		}
		return offices.SetParent(ctx, draggedID, targetID)
	})
}

// Swap exchanges the names of the two rows and re-homes their positions, so
// each office name keeps its own roster while trading places in the tree.
func (s *hierarchyService) Swap(ctx context.Context, dragged, target string) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "swap", startedAt, err, slog.String("dragged", dragged), slog.String("target", target))
	}()

	if dragged == target {
		return nil
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		offices := repository.NewSQLiteHierarchyRepo(tx)
		positions := repository.NewSQLitePositionRepo(tx)

		draggedID, err := offices.IDByName(ctx, dragged)
		if err != nil {
			return fmt.Errorf("swapping %q: %w", dragged, err)
		}
		targetID, err := offices.IDByName(ctx, target)
		if err != nil {
			return fmt.Errorf("swapping %q with %q: %w", dragged, target, err)
		}

		if err := offices.SetName(ctx, draggedID, target); err != nil {
			return err
		}
		if err := offices.SetName(ctx, targetID, dragged); err != nil {
			return err
		}
		return positions.SwapOffices(ctx, draggedID, targetID)
	})
}

// LoadTree rebuilds the organization from the store, seeding a fresh one when
// the store is empty.
func (s *hierarchyService) LoadTree(ctx context.Context) (root *domain.Node, err error) {
	n, err := s.offices.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tree: %w", err)
	}
	if n == 0 {
		return s.Reset(ctx, "")
	}
	return s.buildTree(ctx)
}

// buildTree reads offices and positions from one snapshot so a concurrent
// writer cannot split them.
func (s *hierarchyService) buildTree(ctx context.Context) (*domain.Node, error) {
	var (
		rows     []repository.HierarchyRow
		byOffice map[int64][]domain.Position
	)
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if rows, err = repository.NewSQLiteHierarchyRepo(tx).List(ctx); err != nil {
			return fmt.Errorf("loading offices: %w", err)
		}
		if byOffice, err = repository.NewSQLitePositionRepo(tx).ListByOffice(ctx); err != nil {
			return fmt.Errorf("loading positions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*domain.Node, len(rows))
	for _, row := range rows {
		n := domain.NewNode(row.Name)
		if ps := byOffice[row.ID]; len(ps) > 0 {
			n.Positions = ps
		}
		nodes[row.ID] = n
	}

	// Rows come back in insertion order; a moved office may sit under a
	// parent inserted after it, so attach only once every node exists.
	var root *domain.Node
	for _, row := range rows {
		n := nodes[row.ID]
		if row.ParentID == nil {
			if root != nil {
				return nil, fmt.Errorf("loading tree: offices %q and %q both lack a parent", root.Name, n.Name)
			}
			root = n
			continue
		}
		parent, ok := nodes[*row.ParentID]
		if !ok {
			return nil, fmt.Errorf("loading tree: parent %d of %q: %w", *row.ParentID, n.Name, repository.ErrNotFound)
		}
		parent.Children = append(parent.Children, n)
	}
	if root == nil {
		return nil, errors.New("loading tree: no root office")
	}
	return root, nil
}

func (s *hierarchyService) Stats(ctx context.Context) (*Stats, error) {
	count, err := s.offices.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting offices: %w", err)
	}
	rows, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}

	stats := &Stats{Offices: count, Positions: len(rows)}
	for _, p := range rows {
		stats.TotalFTE += p.FTE
		if p.IdeaFunded {
			stats.Funded++
		}
	}
	return stats, nil
}
