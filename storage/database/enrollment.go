package database

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
)

const enrollmentTable = "enrollment_totals"

type enrollmentRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{q: db, db: db}
}

func (repo *enrollmentRepository) Snapshot(ctx context.Context, fn func(enrollment.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&enrollmentRepository{q: q, db: repo.db})
	})
}

func (repo *enrollmentRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	return latestPeriod(ctx, repo.q, enrollmentTable, enrollment.ErrNoData)
}

func (repo *enrollmentRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	return availablePeriods(ctx, repo.q, enrollmentTable, 0)
}

func (repo *enrollmentRepository) LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]enrollment.FactRow, error) {
	b := sq.Select(
		"t.school_id", "s.name AS school_name", "t.year", "t.term", "t.week_number",
		"t.normal_boys_total", "t.special_boys_total", "t.normal_girls_total", "t.special_girls_total",
	).From(enrollmentTable + " t")

	b, err := latestWeekJoin(b, enrollmentTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building latest enrollment query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building latest enrollment query")
	}

	rows := []enrollment.FactRow{}
	if err = sqlx.SelectContext(ctx, repo.q, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching latest enrollment rows")
	}
	return rows, nil
}

// enrollmentSums carries SQL aggregates as strings; totals are derived in Go.
type enrollmentSums struct {
	Year  int            `db:"year"`
	Term  int            `db:"term"`
	Boys  sql.NullString `db:"boys"`
	Girls sql.NullString `db:"girls"`
}

func (repo *enrollmentRepository) TotalsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]enrollment.TrendPoint, error) {
	sums, err := repo.totalsByPeriod(ctx, scope, limit, viewBy)
	if err != nil {
		return nil, err
	}

	points := make([]enrollment.TrendPoint, 0, len(sums))
	for _, row := range sums {
		key := period.Key{Year: row.Year, Term: row.Term}
		label := key.Label()
		if viewBy == period.ViewByYears {
			label = key.YearLabel()
		}
		boys, girls := count(row.Boys), count(row.Girls)
		points = append(points, enrollment.TrendPoint{
			Period: label,
			Boys:   boys,
			Girls:  girls,
			Total:  boys + girls,
		})
	}
	return points, nil
}

func (repo *enrollmentRepository) totalsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]enrollmentSums, error) {
	keys, err := availablePeriods(ctx, repo.q, enrollmentTable, limit)
	if err != nil {
		return nil, err
	}
	if viewBy == period.ViewByYears {
		years, err := availableYears(ctx, repo.q, enrollmentTable, limit)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, y := range years {
			keys = append(keys, period.Key{Year: y})
		}
	}

	sums := make([]enrollmentSums, 0, len(keys))
	for _, key := range keys {
		row, err := repo.periodTotals(ctx, scope, key, viewBy)
		if err != nil {
			return nil, err
		}
		sums = append(sums, row)
	}
	return sums, nil
}

// periodTotals sums the latest-week rows of one period, so repeated weekly
// submissions are never double counted.
func (repo *enrollmentRepository) periodTotals(ctx context.Context, scope hierarchy.Filter, key period.Key, viewBy period.ViewBy) (enrollmentSums, error) {
	b := sq.Select(
		"SUM(t.normal_boys_total + t.special_boys_total) AS boys",
		"SUM(t.normal_girls_total + t.special_girls_total) AS girls",
	).From(enrollmentTable + " t")

	var err error
	if viewBy == period.ViewByYears {
		b, err = latestWeekPerTermJoin(b, enrollmentTable, key.Year)
	} else {
		b, err = latestWeekJoin(b, enrollmentTable, key)
	}
	if err != nil {
		return enrollmentSums{}, errors.Wrap(err, "building enrollment totals query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return enrollmentSums{}, errors.Wrap(err, "building enrollment totals query")
	}

	row := enrollmentSums{Year: key.Year, Term: key.Term}
	if err = sqlx.GetContext(ctx, repo.q, &row, query, args...); err != nil && err != sql.ErrNoRows {
		return enrollmentSums{}, errors.Wrap(err, "fetching enrollment totals")
	}
	return row, nil
}
