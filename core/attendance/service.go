package attendance

import (
	"context"
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

var ErrNoData = errors.New("no attendance data")

type (
	Repository interface {
		LatestPeriod(ctx context.Context) (period.Key, error)
		// LatestStudentRows returns the max-week student submission per
		// school within (key.Year, key.Term).
		LatestStudentRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]StudentRow, error)
		LatestTeacherRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]TeacherRow, error)
		// RatesByPeriod returns per-period attendance totals, most recent first.
		RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]TrendPoint, error)
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

func (svc *Service) ResolvePeriod(ctx context.Context, key period.Key) (period.Key, error) {
	if !key.IsZero() {
		return key, nil
	}
	return svc.repo.LatestPeriod(ctx)
}

// Summary aggregates latest-week student and teacher rows for the period.
// Either side failing degrades that side to zeros.
func (svc *Service) Summary(ctx context.Context, scope hierarchy.Filter, key period.Key) Summary {
	key, err := svc.ResolvePeriod(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			svc.log.Error("attendance: resolving period", err)
		}
		return Summarize(nil, nil)
	}

	students, err := svc.repo.LatestStudentRows(ctx, scope, key)
	if err != nil {
		svc.log.Error("attendance: fetching student rows", err)
		students = nil
	}
	teachers, err := svc.repo.LatestTeacherRows(ctx, scope, key)
	if err != nil {
		svc.log.Error("attendance: fetching teacher rows", err)
		teachers = nil
	}
	return Summarize(students, teachers)
}

// Trends returns up to limit periods, oldest first.
func (svc *Service) Trends(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) []TrendPoint {
	points, err := svc.repo.RatesByPeriod(ctx, scope, limit, viewBy)
	if err != nil {
		svc.log.Error("attendance: fetching trends", err)
		return []TrendPoint{}
	}
	return stats.Reverse(points)
}
