package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/reentry"
	"github.com/trezcool/shule/core/survey"
)

const (
	reentryTable         = "pregnancy_tracker_responses"
	reentryQuestionTable = "pregnancy_tracker_questions"
)

type reentryRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ reentry.Repository = (*reentryRepository)(nil)

func NewReentryRepository(db *sqlx.DB) *reentryRepository {
	return &reentryRepository{q: db, db: db}
}

func (repo *reentryRepository) Snapshot(ctx context.Context, fn func(reentry.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&reentryRepository{q: q, db: repo.db})
	})
}

func (repo *reentryRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	return latestPeriod(ctx, repo.q, reentryTable, reentry.ErrNoData)
}

func (repo *reentryRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	return availablePeriods(ctx, repo.q, reentryTable, 0)
}

func (repo *reentryRepository) IndicatorSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]int, error) {
	rows, err := latestPivotRows(ctx, repo.q, reentryTable, scope, key, reentry.Questions.QuestionIDs())
	if err != nil {
		return nil, err
	}
	metas, err := questionMetas(ctx, repo.q, reentryQuestionTable)
	if err != nil {
		return nil, err
	}
	return foldPivot(rows, metas, reentry.Questions), nil
}

func (repo *reentryRepository) SumsByDistrict(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]reentry.DistrictRow, error) {
	b := sq.Select(append(pivotCols, "s.district_id", "d.name AS district")...).
		From(reentryTable + " t")

	b, err := latestWeekJoin(b, reentryTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building reentry district query")
	}
	b = scopeSchools(b, scope).
		Join("districts d ON d.id = s.district_id").
		Where(sq.Eq{"t.question_id": reentry.Questions.QuestionIDs()})

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building reentry district query")
	}

	var raw []districtPivotRow
	if err = sqlx.SelectContext(ctx, repo.q, &raw, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching reentry district rows")
	}

	metas, err := questionMetas(ctx, repo.q, reentryQuestionTable)
	if err != nil {
		return nil, err
	}

	return foldDistricts(raw, metas), nil
}

// foldDistricts groups pivot rows by district and folds each group through
// the shared question map.
func foldDistricts(rows []districtPivotRow, metas map[int]survey.Meta) []reentry.DistrictRow {
	order := []int{}
	grouped := map[int][]survey.Row{}
	names := map[int]string{}
	for _, row := range rows {
		if _, ok := grouped[row.DistrictID]; !ok {
			order = append(order, row.DistrictID)
			names[row.DistrictID] = row.District
		}
		grouped[row.DistrictID] = append(grouped[row.DistrictID], row.Row)
	}

	out := make([]reentry.DistrictRow, 0, len(order))
	for _, id := range order {
		out = append(out, reentry.DistrictRow{
			DistrictID: id,
			District:   names[id],
			Sums:       foldPivot(grouped[id], metas, reentry.Questions),
		})
	}
	return out
}

func (repo *reentryRepository) SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]reentry.TrendRow, error) {
	metas, err := questionMetas(ctx, repo.q, reentryQuestionTable)
	if err != nil {
		return nil, err
	}

	qids := reentry.Questions.QuestionIDs()
	trends := []reentry.TrendRow{}

	if viewBy == period.ViewByYears {
		years, err := availableYears(ctx, repo.q, reentryTable, limit)
		if err != nil {
			return nil, err
		}
		for _, y := range years {
			rows, err := yearPivotRows(ctx, repo.q, reentryTable, scope, y, qids)
			if err != nil {
				return nil, err
			}
			trends = append(trends, reentry.TrendRow{
				Key:  period.Key{Year: y},
				Sums: foldPivot(rows, metas, reentry.Questions),
			})
		}
		return trends, nil
	}

	keys, err := availablePeriods(ctx, repo.q, reentryTable, limit)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		rows, err := latestPivotRows(ctx, repo.q, reentryTable, scope, key, qids)
		if err != nil {
			return nil, err
		}
		trends = append(trends, reentry.TrendRow{
			Key:  key,
			Sums: foldPivot(rows, metas, reentry.Questions),
		})
	}
	return trends, nil
}
