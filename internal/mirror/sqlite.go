package mirror

import (
	"context"

	"github.com/alexanderramin/orgchart/internal/db"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/service"
)

// SQLiteOpener opens (and migrates) the store at path. rootName seeds a fresh
// organization; empty uses service.DefaultRootName.
func SQLiteOpener(path, rootName string, observer service.UseCaseObserver) Opener {
	return func(ctx context.Context) (*Backend, error) {
		database, err := db.OpenDB(path)
		if err != nil {
			return nil, err
		}

		hierarchy := service.NewHierarchyService(
			repository.NewSQLiteHierarchyRepo(database),
			repository.NewSQLitePositionRepo(database),
			db.NewSQLiteUnitOfWork(database),
			rootName,
			observer,
		)
		search := service.NewSearchService(repository.NewSQLiteSearchRepo(database), observer)

		return &Backend{Hierarchy: hierarchy, Search: search, Close: database.Close}, nil
	}
}
