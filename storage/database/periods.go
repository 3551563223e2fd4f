package database

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/period"
)

// latestPeriod resolves the global latest (year, term) present in a fact
// table. table comes from the fixed whitelist of fact table names, never
// from user input. noData is returned when the table is empty.
func latestPeriod(ctx context.Context, q queryer, table string, noData error) (period.Key, error) {
	query, args, err := sq.Select("year", "term").
		From(table).
		OrderBy("year DESC", "term DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return period.Key{}, errors.Wrap(err, "building latest period query")
	}

	var key period.Key
	if err = sqlx.GetContext(ctx, q, &key, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return period.Key{}, noData
		}
		return period.Key{}, badConn(errors.Wrapf(err, "resolving latest period of %s", table))
	}
	return key, nil
}

// availablePeriods lists the distinct (year, term) pairs of a fact table,
// most recent first. limit 0 means all.
func availablePeriods(ctx context.Context, q queryer, table string, limit int) ([]period.Key, error) {
	b := sq.Select("year", "term").
		From(table).
		GroupBy("year", "term").
		OrderBy("year DESC", "term DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building available periods query")
	}

	keys := []period.Key{}
	if err = sqlx.SelectContext(ctx, q, &keys, query, args...); err != nil {
		return nil, errors.Wrapf(err, "listing periods of %s", table)
	}
	return keys, nil
}

// availableYears lists distinct years, most recent first.
func availableYears(ctx context.Context, q queryer, table string, limit int) ([]int, error) {
	b := sq.Select("year").
		From(table).
		GroupBy("year").
		OrderBy("year DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building available years query")
	}

	years := []int{}
	if err = sqlx.SelectContext(ctx, q, &years, query, args...); err != nil {
		return nil, errors.Wrapf(err, "listing years of %s", table)
	}
	return years, nil
}
