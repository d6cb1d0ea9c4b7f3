package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/orgchart/internal/repository"
)

type searchService struct {
	search   repository.SearchRepo
	observer UseCaseObserver
}

func NewSearchService(search repository.SearchRepo, observers ...UseCaseObserver) SearchService {
	return &searchService{search: search, observer: useCaseObserverOrNoop(observers)}
}

func (s *searchService) Offices(ctx context.Context, query string) (results []repository.OfficeResult, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "search-offices", startedAt, query, len(results), err) }()
	return s.search.Offices(ctx, query)
}

func (s *searchService) Positions(ctx context.Context, query string) (results []repository.PositionResult, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "search-positions", startedAt, query, len(results), err) }()
	return s.search.Positions(ctx, query)
}

func (s *searchService) observe(ctx context.Context, name string, startedAt time.Time, query string, hits int, err error) {
	s.observer.ObserveUseCase(ctx, newEvent(name, startedAt, err,
		slog.Int("tokens", len(strings.Fields(query))), slog.Int("hits", hits)))
}
