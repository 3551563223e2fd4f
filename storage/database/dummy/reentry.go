package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/reentry"
)

type reentryRepository struct {
	db *DB
}

var _ reentry.Repository = (*reentryRepository)(nil)

func NewReentryRepository(db *DB) reentry.Repository {
	return &reentryRepository{db: db}
}

func (repo *reentryRepository) Snapshot(ctx context.Context, fn func(reentry.Repository) error) error {
	return fn(repo)
}

func (repo *reentryRepository) keys() []period.Key {
	keys := make([]period.Key, 0, len(repo.db.ReentryRows))
	for _, r := range repo.db.ReentryRows {
		keys = append(keys, period.Key{Year: r.Year, Term: r.Term, Week: r.Week})
	}
	return keys
}

func (repo *reentryRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())
	if len(periods) == 0 {
		return period.Key{}, reentry.ErrNoData
	}
	return periods[0], nil
}

func (repo *reentryRepository) IndicatorSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := latestPivot(repo.db.ReentryRows, func(id int) bool { return repo.db.inScope(id, scope) }, key)
	return foldPivot(rows, repo.db.ReentryQuestions, reentry.Questions), nil
}

func (repo *reentryRepository) SumsByDistrict(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]reentry.DistrictRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []reentry.DistrictRow
	for _, d := range repo.db.Districts {
		if scope.Level == hierarchy.LevelRegion && d.ParentID != scope.EntityID {
			continue
		}
		dScope := hierarchy.Filter{Level: hierarchy.LevelDistrict, EntityID: d.ID, SchoolType: scope.SchoolType}
		rows := latestPivot(repo.db.ReentryRows, func(id int) bool { return repo.db.inScope(id, dScope) }, key)
		if len(rows) == 0 {
			continue
		}
		out = append(out, reentry.DistrictRow{
			DistrictID: d.ID,
			District:   d.Name,
			Sums:       foldPivot(rows, repo.db.ReentryQuestions, reentry.Questions),
		})
	}
	return out, nil
}

func (repo *reentryRepository) SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]reentry.TrendRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	inScope := func(id int) bool { return repo.db.inScope(id, scope) }

	var out []reentry.TrendRow
	if viewBy == period.ViewByYears {
		for _, y := range distinctYears(repo.keys()) {
			if limit > 0 && len(out) == limit {
				break
			}
			rows := yearPivot(repo.db.ReentryRows, inScope, y)
			out = append(out, reentry.TrendRow{
				Key:  period.Key{Year: y},
				Sums: foldPivot(rows, repo.db.ReentryQuestions, reentry.Questions),
			})
		}
		return out, nil
	}
	for _, p := range distinctPeriods(repo.keys()) {
		if limit > 0 && len(out) == limit {
			break
		}
		rows := latestPivot(repo.db.ReentryRows, inScope, p)
		out = append(out, reentry.TrendRow{
			Key:  p,
			Sums: foldPivot(rows, repo.db.ReentryQuestions, reentry.Questions),
		})
	}
	return out, nil
}

func (repo *reentryRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return distinctPeriods(repo.keys()), nil
}
