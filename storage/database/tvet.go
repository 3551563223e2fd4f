package database

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
	"github.com/trezcool/shule/core/tvet"
)

const (
	tvetTable         = "tvet_tracker_responses"
	tvetQuestionTable = "tvet_tracker_questions"
)

type tvetRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ tvet.Repository = (*tvetRepository)(nil)

func NewTVETRepository(db *sqlx.DB) *tvetRepository {
	return &tvetRepository{q: db, db: db}
}

func (repo *tvetRepository) Snapshot(ctx context.Context, fn func(tvet.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&tvetRepository{q: q, db: repo.db})
	})
}

func (repo *tvetRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	return latestPeriod(ctx, repo.q, tvetTable, tvet.ErrNoData)
}

func (repo *tvetRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	return availablePeriods(ctx, repo.q, tvetTable, 0)
}

func (repo *tvetRepository) GenderSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]map[survey.Gender]int, error) {
	rows, err := latestPivotRows(ctx, repo.q, tvetTable, scope, key, tvet.Questions.QuestionIDs())
	if err != nil {
		return nil, err
	}
	metas, err := questionMetas(ctx, repo.q, tvetQuestionTable)
	if err != nil {
		return nil, err
	}
	return foldPivotByGender(rows, metas, tvet.Questions), nil
}

func (repo *tvetRepository) Institutions(ctx context.Context, scope hierarchy.Filter, key period.Key) (int, error) {
	b := scopeSchools(
		sq.Select("COUNT(DISTINCT t.school_id) AS institutions").
			From(tvetTable+" t").
			Where(sq.Eq{"t.year": key.Year, "t.term": key.Term}),
		scope,
	)
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building tvet institutions query")
	}

	var n sql.NullString
	if err = sqlx.GetContext(ctx, repo.q, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting tvet institutions")
	}
	return count(n), nil
}

func (repo *tvetRepository) SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]tvet.TrendRow, error) {
	metas, err := questionMetas(ctx, repo.q, tvetQuestionTable)
	if err != nil {
		return nil, err
	}

	qids := tvet.Questions.QuestionIDs()
	trends := []tvet.TrendRow{}

	if viewBy == period.ViewByYears {
		years, err := availableYears(ctx, repo.q, tvetTable, limit)
		if err != nil {
			return nil, err
		}
		for _, y := range years {
			rows, err := yearPivotRows(ctx, repo.q, tvetTable, scope, y, qids)
			if err != nil {
				return nil, err
			}
			trends = append(trends, tvet.TrendRow{
				Key:  period.Key{Year: y},
				Sums: foldPivotByGender(rows, metas, tvet.Questions),
			})
		}
		return trends, nil
	}

	keys, err := availablePeriods(ctx, repo.q, tvetTable, limit)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		rows, err := latestPivotRows(ctx, repo.q, tvetTable, scope, key, qids)
		if err != nil {
			return nil, err
		}
		trends = append(trends, tvet.TrendRow{
			Key:  key,
			Sums: foldPivotByGender(rows, metas, tvet.Questions),
		})
	}
	return trends, nil
}

// rollupRow carries a pivot row with its school's district and region.
type rollupRow struct {
	survey.Row
	DistrictID int    `db:"district_id"`
	District   string `db:"district"`
	RegionID   int    `db:"region_id"`
	Region     string `db:"region"`
}

func (repo *tvetRepository) Rollup(ctx context.Context, key period.Key) ([]tvet.RegionRollup, error) {
	traineeQIDs := []int{}
	for _, m := range tvet.Questions {
		if m.Indicator == tvet.IndTrainees {
			for qid := m.FirstQID; qid <= m.LastQID; qid++ {
				traineeQIDs = append(traineeQIDs, qid)
			}
		}
	}

	b := sq.Select(append(pivotCols,
		"s.district_id", "d.name AS district", "d.region_id", "rg.name AS region",
	)...).From(tvetTable + " t")

	b, err := latestWeekJoin(b, tvetTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building tvet rollup query")
	}
	b = scopeSchools(b, hierarchy.Filter{}).
		Join("districts d ON d.id = s.district_id").
		Join("regions rg ON rg.id = d.region_id").
		Where(sq.Eq{"t.question_id": traineeQIDs})

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building tvet rollup query")
	}

	var raw []rollupRow
	if err = sqlx.SelectContext(ctx, repo.q, &raw, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching tvet rollup rows")
	}

	metas, err := questionMetas(ctx, repo.q, tvetQuestionTable)
	if err != nil {
		return nil, err
	}
	return rollup(raw, metas), nil
}

// rollup folds trainee rows into region → district gender counts, preserving
// first-seen order.
func rollup(rows []rollupRow, metas map[int]survey.Meta) []tvet.RegionRollup {
	type distAgg struct {
		id, regionID int
		name         string
		schools      map[int]bool
		trainees     stats.GenderCount
	}

	regionOrder := []int{}
	regionNames := map[int]string{}
	districtOrder := []int{}
	dists := map[int]*distAgg{}

	for _, row := range rows {
		m, ok := tvet.Questions.Find(row.QuestionID)
		if !ok {
			continue
		}
		meta, ok := metas[row.QuestionID]
		if !ok {
			continue
		}
		ans, err := survey.Resolve(meta, row.Row)
		if err != nil {
			continue
		}

		if _, ok = regionNames[row.RegionID]; !ok {
			regionNames[row.RegionID] = row.Region
			regionOrder = append(regionOrder, row.RegionID)
		}
		d, ok := dists[row.DistrictID]
		if !ok {
			d = &distAgg{id: row.DistrictID, regionID: row.RegionID, name: row.District, schools: map[int]bool{}}
			dists[row.DistrictID] = d
			districtOrder = append(districtOrder, row.DistrictID)
		}
		d.schools[row.SchoolID] = true

		var male, female int
		switch m.Gender {
		case survey.Male:
			male = ans.Count()
		case survey.Female:
			female = ans.Count()
		}
		d.trainees = d.trainees.Add(stats.NewGenderCount(male, female))
	}

	out := make([]tvet.RegionRollup, 0, len(regionOrder))
	for _, rid := range regionOrder {
		reg := tvet.RegionRollup{RegionID: rid, Region: regionNames[rid], Districts: []tvet.DistrictRollup{}}
		for _, did := range districtOrder {
			d := dists[did]
			if d.regionID != rid {
				continue
			}
			reg.Trainees = reg.Trainees.Add(d.trainees)
			reg.Districts = append(reg.Districts, tvet.DistrictRollup{
				DistrictID: d.id,
				District:   d.name,
				Schools:    len(d.schools),
				Trainees:   d.trainees,
			})
		}
		out = append(out, reg)
	}
	return out
}
