package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) Snapshot(ctx context.Context, fn func(enrollment.Repository) error) error {
	return fn(repo)
}

func (repo *enrollmentRepository) keys() []period.Key {
	keys := make([]period.Key, 0, len(repo.db.EnrollmentRows))
	for _, r := range repo.db.EnrollmentRows {
		keys = append(keys, r.Period())
	}
	return keys
}

func (repo *enrollmentRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())
	if len(periods) == 0 {
		return period.Key{}, enrollment.ErrNoData
	}
	return periods[0], nil
}

func (repo *enrollmentRepository) LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]enrollment.FactRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.latestRows(scope, key), nil
}

func (repo *enrollmentRepository) latestRows(scope hierarchy.Filter, key period.Key) []enrollment.FactRow {
	maxWeek := map[int]int{}
	for _, r := range repo.db.EnrollmentRows {
		if r.Year != key.Year || r.Term != key.Term || !repo.db.inScope(r.SchoolID, scope) {
			continue
		}
		if r.Week > maxWeek[r.SchoolID] {
			maxWeek[r.SchoolID] = r.Week
		}
	}
	var out []enrollment.FactRow
	for _, r := range repo.db.EnrollmentRows {
		if r.Year == key.Year && r.Term == key.Term && repo.db.inScope(r.SchoolID, scope) && r.Week == maxWeek[r.SchoolID] {
			r.SchoolName = repo.db.schoolName(r.SchoolID)
			out = append(out, r)
		}
	}
	return out
}

// yearRows keeps each school's max-week submission per term across a year.
func (repo *enrollmentRepository) yearRows(scope hierarchy.Filter, year int) []enrollment.FactRow {
	type st struct{ school, term int }
	maxWeek := map[st]int{}
	for _, r := range repo.db.EnrollmentRows {
		if r.Year != year || !repo.db.inScope(r.SchoolID, scope) {
			continue
		}
		k := st{r.SchoolID, r.Term}
		if r.Week > maxWeek[k] {
			maxWeek[k] = r.Week
		}
	}
	var out []enrollment.FactRow
	for _, r := range repo.db.EnrollmentRows {
		if r.Year == year && repo.db.inScope(r.SchoolID, scope) && r.Week == maxWeek[st{r.SchoolID, r.Term}] {
			out = append(out, r)
		}
	}
	return out
}

func (repo *enrollmentRepository) TotalsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]enrollment.TrendPoint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var points []enrollment.TrendPoint
	if viewBy == period.ViewByYears {
		for _, y := range distinctYears(repo.keys()) {
			if limit > 0 && len(points) == limit {
				break
			}
			points = append(points, sumRows(repo.yearRows(scope, y), period.Key{Year: y}.YearLabel()))
		}
		return points, nil
	}
	for _, p := range distinctPeriods(repo.keys()) {
		if limit > 0 && len(points) == limit {
			break
		}
		points = append(points, sumRows(repo.latestRows(scope, p), p.Label()))
	}
	return points, nil
}

func sumRows(rows []enrollment.FactRow, label string) enrollment.TrendPoint {
	pt := enrollment.TrendPoint{Period: label}
	for _, r := range rows {
		pt.Boys += r.TotalBoys()
		pt.Girls += r.TotalGirls()
	}
	pt.Total = pt.Boys + pt.Girls
	return pt
}

func (repo *enrollmentRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return distinctPeriods(repo.keys()), nil
}
