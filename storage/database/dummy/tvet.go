package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
	"github.com/trezcool/shule/core/tvet"
)

type tvetRepository struct {
	db *DB
}

var _ tvet.Repository = (*tvetRepository)(nil)

func NewTVETRepository(db *DB) tvet.Repository {
	return &tvetRepository{db: db}
}

func (repo *tvetRepository) Snapshot(ctx context.Context, fn func(tvet.Repository) error) error {
	return fn(repo)
}

func (repo *tvetRepository) keys() []period.Key {
	keys := make([]period.Key, 0, len(repo.db.TVETRows))
	for _, r := range repo.db.TVETRows {
		keys = append(keys, period.Key{Year: r.Year, Term: r.Term, Week: r.Week})
	}
	return keys
}

func (repo *tvetRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())
	if len(periods) == 0 {
		return period.Key{}, tvet.ErrNoData
	}
	return periods[0], nil
}

func (repo *tvetRepository) GenderSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]map[survey.Gender]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := latestPivot(repo.db.TVETRows, func(id int) bool { return repo.db.inScope(id, scope) }, key)
	return foldPivotByGender(rows, repo.db.TVETQuestions, tvet.Questions), nil
}

func (repo *tvetRepository) Institutions(ctx context.Context, scope hierarchy.Filter, key period.Key) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := map[int]bool{}
	for _, r := range repo.db.TVETRows {
		if r.Year == key.Year && r.Term == key.Term && repo.db.inScope(r.SchoolID, scope) {
			seen[r.SchoolID] = true
		}
	}
	return len(seen), nil
}

func (repo *tvetRepository) SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]tvet.TrendRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	inScope := func(id int) bool { return repo.db.inScope(id, scope) }

	var out []tvet.TrendRow
	if viewBy == period.ViewByYears {
		for _, y := range distinctYears(repo.keys()) {
			if limit > 0 && len(out) == limit {
				break
			}
			rows := yearPivot(repo.db.TVETRows, inScope, y)
			out = append(out, tvet.TrendRow{
				Key:  period.Key{Year: y},
				Sums: foldPivotByGender(rows, repo.db.TVETQuestions, tvet.Questions),
			})
		}
		return out, nil
	}
	for _, p := range distinctPeriods(repo.keys()) {
		if limit > 0 && len(out) == limit {
			break
		}
		rows := latestPivot(repo.db.TVETRows, inScope, p)
		out = append(out, tvet.TrendRow{
			Key:  p,
			Sums: foldPivotByGender(rows, repo.db.TVETQuestions, tvet.Questions),
		})
	}
	return out, nil
}

func (repo *tvetRepository) Rollup(ctx context.Context, key period.Key) ([]tvet.RegionRollup, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []tvet.RegionRollup
	for _, rg := range repo.db.Regions {
		region := tvet.RegionRollup{RegionID: rg.ID, Region: rg.Name, Districts: []tvet.DistrictRollup{}}
		for _, d := range repo.db.Districts {
			if d.ParentID != rg.ID {
				continue
			}
			scope := hierarchy.Filter{Level: hierarchy.LevelDistrict, EntityID: d.ID}
			rows := latestPivot(repo.db.TVETRows, func(id int) bool { return repo.db.inScope(id, scope) }, key)
			if len(rows) == 0 {
				continue
			}
			sums := foldPivotByGender(rows, repo.db.TVETQuestions, tvet.Questions)
			schools := map[int]bool{}
			for _, r := range rows {
				schools[r.SchoolID] = true
			}
			dist := tvet.DistrictRollup{
				DistrictID: d.ID,
				District:   d.Name,
				Schools:    len(schools),
				Trainees:   stats.NewGenderCount(sums[tvet.IndTrainees][survey.Male], sums[tvet.IndTrainees][survey.Female]),
			}
			region.Trainees = region.Trainees.Add(dist.Trainees)
			region.Districts = append(region.Districts, dist)
		}
		if len(region.Districts) > 0 {
			out = append(out, region)
		}
	}
	return out, nil
}

func (repo *tvetRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return distinctPeriods(repo.keys()), nil
}
