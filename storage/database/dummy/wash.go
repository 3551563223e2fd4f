package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/wash"
)

type washRepository struct {
	db *DB
}

var _ wash.Repository = (*washRepository)(nil)

func NewWashRepository(db *DB) wash.Repository {
	return &washRepository{db: db}
}

func (repo *washRepository) Snapshot(ctx context.Context, fn func(wash.Repository) error) error {
	return fn(repo)
}

func (repo *washRepository) keys() []period.Key {
	keys := make([]period.Key, 0, len(repo.db.WashRows))
	for _, r := range repo.db.WashRows {
		keys = append(keys, r.Period())
	}
	return keys
}

func (repo *washRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())
	if len(periods) == 0 {
		return period.Key{}, wash.ErrNoData
	}
	return periods[0], nil
}

func (repo *washRepository) LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]wash.FactRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.latestRows(scope, key), nil
}

func (repo *washRepository) latestRows(scope hierarchy.Filter, key period.Key) []wash.FactRow {
	maxWeek := map[int]int{}
	for _, r := range repo.db.WashRows {
		if r.Year != key.Year || r.Term != key.Term || !repo.db.inScope(r.SchoolID, scope) {
			continue
		}
		if r.Week > maxWeek[r.SchoolID] {
			maxWeek[r.SchoolID] = r.Week
		}
	}
	var out []wash.FactRow
	for _, r := range repo.db.WashRows {
		if r.Year == key.Year && r.Term == key.Term && repo.db.inScope(r.SchoolID, scope) && r.Week == maxWeek[r.SchoolID] {
			r.SchoolName = repo.db.schoolName(r.SchoolID)
			out = append(out, r)
		}
	}
	return out
}

func (repo *washRepository) RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]wash.TrendPoint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var points []wash.TrendPoint
	for _, p := range distinctPeriods(repo.keys()) {
		if limit > 0 && len(points) == limit {
			break
		}
		rows := repo.latestRows(scope, p)
		var water int
		for _, r := range rows {
			if r.WaterFunctional {
				water++
			}
		}
		points = append(points, wash.TrendPoint{
			Period:          p.Label(),
			SchoolsSurveyed: len(rows),
			WaterAccessRate: stats.FormatPercent(water, len(rows)),
		})
	}
	return points, nil
}

func (repo *washRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return distinctPeriods(repo.keys()), nil
}
