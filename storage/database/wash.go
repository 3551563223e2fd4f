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
	"github.com/trezcool/shule/core/wash"
)

const washTable = "wash_surveys"

type washRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ wash.Repository = (*washRepository)(nil)

func NewWashRepository(db *sqlx.DB) *washRepository {
	return &washRepository{q: db, db: db}
}

func (repo *washRepository) Snapshot(ctx context.Context, fn func(wash.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&washRepository{q: q, db: repo.db})
	})
}

func (repo *washRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	return latestPeriod(ctx, repo.q, washTable, wash.ErrNoData)
}

func (repo *washRepository) AvailablePeriods(ctx context.Context) ([]period.Key, error) {
	return availablePeriods(ctx, repo.q, washTable, 0)
}

func (repo *washRepository) LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]wash.FactRow, error) {
	b := sq.Select(
		"t.school_id", "s.name AS school_name", "t.year", "t.term", "t.week_number",
		"t.water_functional", "t.toilets_boys", "t.toilets_girls",
		"t.handwashing_stations", "t.soap_available",
	).From(washTable + " t")

	b, err := latestWeekJoin(b, washTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building latest wash query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building latest wash query")
	}

	rows := []wash.FactRow{}
	if err = sqlx.SelectContext(ctx, repo.q, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching latest wash rows")
	}
	return rows, nil
}

type washSums struct {
	Surveyed sql.NullString `db:"surveyed"`
	Water    sql.NullString `db:"water"`
}

func (repo *washRepository) RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]wash.TrendPoint, error) {
	keys, err := availablePeriods(ctx, repo.q, washTable, limit)
	if err != nil {
		return nil, err
	}
	if viewBy == period.ViewByYears {
		years, err := availableYears(ctx, repo.q, washTable, limit)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, y := range years {
			keys = append(keys, period.Key{Year: y})
		}
	}

	points := make([]wash.TrendPoint, 0, len(keys))
	for _, key := range keys {
		b := sq.Select(
			"COUNT(DISTINCT t.school_id) AS surveyed",
			"SUM(CASE WHEN t.water_functional THEN 1 ELSE 0 END) AS water",
		).From(washTable + " t")

		if viewBy == period.ViewByYears {
			b, err = latestWeekPerTermJoin(b, washTable, key.Year)
		} else {
			b, err = latestWeekJoin(b, washTable, key)
		}
		if err != nil {
			return nil, errors.Wrap(err, "building wash trend query")
		}
		b = scopeSchools(b, scope)

		query, args, err := b.ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "building wash trend query")
		}

		var row washSums
		if err = sqlx.GetContext(ctx, repo.q, &row, query, args...); err != nil && err != sql.ErrNoRows {
			return nil, errors.Wrap(err, "fetching wash trend sums")
		}

		label := key.Label()
		if viewBy == period.ViewByYears {
			label = key.YearLabel()
		}
		surveyed := count(row.Surveyed)
		points = append(points, wash.TrendPoint{
			Period:          label,
			SchoolsSurveyed: surveyed,
			WaterAccessRate: stats.FormatPercent(count(row.Water), surveyed),
		})
	}
	return points, nil
}
