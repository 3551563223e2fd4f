package enrollment

import (
	"context"
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

var ErrNoData = errors.New("no enrollment data")

type (
	Repository interface {
		// LatestPeriod resolves the most recent (year, term) present in the
		// table, ErrNoData when empty.
		LatestPeriod(ctx context.Context) (period.Key, error)
		// LatestRows returns at most one row per school: the max-week
		// submission within (key.Year, key.Term) under the given scope.
		LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]FactRow, error)
		// TotalsByPeriod returns per-period totals, most recent period first.
		TotalsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]TrendPoint, error)
		AvailablePeriods(ctx context.Context) ([]period.Key, error)
		// Snapshot runs fn against a consistent read-only view of the table.
		Snapshot(ctx context.Context, fn func(Repository) error) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ResolvePeriod fills a zero key with the latest (year, term) on record.
func (svc *Service) ResolvePeriod(ctx context.Context, key period.Key) (period.Key, error) {
	if !key.IsZero() {
		return key, nil
	}
	return svc.repo.LatestPeriod(ctx)
}

// Summary aggregates the latest-week rows for the period. Key resolution
// errors degrade to the zero summary; the report stays well-formed.
func (svc *Service) Summary(ctx context.Context, scope hierarchy.Filter, key period.Key) (Summary, period.Key) {
	key, err := svc.ResolvePeriod(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			svc.log.Error("enrollment: resolving period", err)
		}
		return Summary{}, key
	}
	rows, err := svc.repo.LatestRows(ctx, scope, key)
	if err != nil {
		svc.log.Error("enrollment: fetching latest rows", err)
		return Summary{}, key
	}
	return Summarize(rows), key
}

// Trends returns up to limit periods, oldest first.
func (svc *Service) Trends(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) []TrendPoint {
	points, err := svc.repo.TotalsByPeriod(ctx, scope, limit, viewBy)
	if err != nil {
		svc.log.Error("enrollment: fetching trends", err)
		return []TrendPoint{}
	}
	return stats.Reverse(points)
}

func (svc *Service) LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]FactRow, error) {
	return svc.repo.LatestRows(ctx, scope, key)
}

func (svc *Service) AvailablePeriods(ctx context.Context) []period.Key {
	keys, err := svc.repo.AvailablePeriods(ctx)
	if err != nil {
		svc.log.Error("enrollment: fetching available periods", err)
		return []period.Key{}
	}
	return keys
}
