package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/survey"
)

// pivot helpers shared by the tracker domains (pregnancy, TVET): generic
// (question_id, answer) rows resolved to the latest submission per school and
// interpreted via the question metadata, once, in Go.

var pivotCols = []string{
	"t.question_id",
	"t.school_id",
	"COALESCE(t.numeric_response, '') AS numeric_response",
	"COALESCE(t.text_response, '') AS text_response",
	"COALESCE(t.single_choice_response, '') AS single_choice_response",
	"COALESCE(t.multiple_choice_response, '') AS multiple_choice_response",
}

// latestPivotRows fetches the latest-week pivot rows per school within the
// period, limited to the mapped question ids.
func latestPivotRows(ctx context.Context, q queryer, table string, scope hierarchy.Filter, key period.Key, questionIDs []int) ([]survey.Row, error) {
	b := sq.Select(pivotCols...).From(table + " t")

	b, err := latestWeekJoin(b, table, key)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s pivot query", table)
	}
	b = scopeSchools(b, scope)
	if len(questionIDs) > 0 {
		b = b.Where(sq.Eq{"t.question_id": questionIDs})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "building %s pivot query", table)
	}

	rows := []survey.Row{}
	if err = sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "fetching %s pivot rows", table)
	}
	return rows, nil
}

// yearPivotRows is the yearly-grain variant: latest rows per (school, term)
// across the whole year.
func yearPivotRows(ctx context.Context, q queryer, table string, scope hierarchy.Filter, year int, questionIDs []int) ([]survey.Row, error) {
	b := sq.Select(pivotCols...).From(table + " t")

	b, err := latestWeekPerTermJoin(b, table, year)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s year pivot query", table)
	}
	b = scopeSchools(b, scope)
	if len(questionIDs) > 0 {
		b = b.Where(sq.Eq{"t.question_id": questionIDs})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "building %s year pivot query", table)
	}

	rows := []survey.Row{}
	if err = sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "fetching %s year pivot rows", table)
	}
	return rows, nil
}

// questionMetas loads the question metadata table keyed by id.
func questionMetas(ctx context.Context, q queryer, table string) (map[int]survey.Meta, error) {
	query, args, err := sq.Select("id", "text", "question_type").From(table).ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "building %s query", table)
	}

	metas := []survey.Meta{}
	if err = sqlx.SelectContext(ctx, q, &metas, query, args...); err != nil {
		return nil, errors.Wrapf(err, "fetching %s", table)
	}

	byID := make(map[int]survey.Meta, len(metas))
	for _, m := range metas {
		byID[m.ID] = m
	}
	return byID, nil
}

// foldPivot resolves each row's answer by its question type and folds the
// counts into the table's named indicators. Rows with unknown questions or
// unmapped ids are skipped.
func foldPivot(rows []survey.Row, metas map[int]survey.Meta, table survey.Table) map[string]int {
	sums := map[string]int{}
	for _, row := range rows {
		m, ok := table.Find(row.QuestionID)
		if !ok {
			continue
		}
		meta, ok := metas[row.QuestionID]
		if !ok {
			continue
		}
		ans, err := survey.Resolve(meta, row)
		if err != nil {
			continue
		}
		sums[m.Indicator] += ans.Count()
	}
	return sums
}

// districtPivotRow is a pivot row carrying its school's district.
type districtPivotRow struct {
	survey.Row
	DistrictID int    `db:"district_id"`
	District   string `db:"district"`
}

// foldPivotByGender is foldPivot split by the mapping's gender tag.
func foldPivotByGender(rows []survey.Row, metas map[int]survey.Meta, table survey.Table) map[string]map[survey.Gender]int {
	sums := map[string]map[survey.Gender]int{}
	for _, row := range rows {
		m, ok := table.Find(row.QuestionID)
		if !ok {
			continue
		}
		meta, ok := metas[row.QuestionID]
		if !ok {
			continue
		}
		ans, err := survey.Resolve(meta, row)
		if err != nil {
			continue
		}
		if sums[m.Indicator] == nil {
			sums[m.Indicator] = map[survey.Gender]int{}
		}
		sums[m.Indicator][m.Gender] += ans.Count()
	}
	return sums
}
