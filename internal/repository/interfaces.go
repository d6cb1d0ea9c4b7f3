package repository

import (
	"context"

	"github.com/alexanderramin/orgchart/internal/domain"
)

type HierarchyRepo interface {
	Insert(ctx context.Context, name, parent string) (int64, error)
	IDByName(ctx context.Context, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*HierarchyRow, error)
	List(ctx context.Context) ([]HierarchyRow, error)
	Count(ctx context.Context) (int, error)
	SetParent(ctx context.Context, id, parentID int64) error
	PromoteChildren(ctx context.Context, id int64) error
	SetName(ctx context.Context, id int64, name string) error
	DeleteAll(ctx context.Context) error
}

type PositionRepo interface {
	Insert(ctx context.Context, p domain.Position, office string) error
	List(ctx context.Context) ([]PositionRow, error)
	ListByOffice(ctx context.Context) (map[int64][]domain.Position, error)
	SwapOffices(ctx context.Context, a, b int64) error
	DeleteAll(ctx context.Context) error
}

type SearchRepo interface {
	Offices(ctx context.Context, query string) ([]OfficeResult, error)
	Positions(ctx context.Context, query string) ([]PositionResult, error)
}

var (
	_ HierarchyRepo = (*SQLiteHierarchyRepo)(nil)
	_ PositionRepo  = (*SQLitePositionRepo)(nil)
	_ SearchRepo    = (*SQLiteSearchRepo)(nil)
)
