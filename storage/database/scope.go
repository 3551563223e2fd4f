package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

// scopeSchools joins the school dimension onto a fact table aliased `t` and
// applies the single active hierarchy level as a parameterized predicate. The
// level enum is the only thing that varies; no user input reaches the SQL
// text.
func scopeSchools(b sq.SelectBuilder, f hierarchy.Filter) sq.SelectBuilder {
	b = b.Join("schools s ON s.id = t.school_id")
	switch f.Level {
	case hierarchy.LevelSchool:
		b = b.Where(sq.Eq{"s.id": f.EntityID})
	case hierarchy.LevelCircuit:
		b = b.Where(sq.Eq{"s.circuit_id": f.EntityID})
	case hierarchy.LevelDistrict:
		b = b.Where(sq.Eq{"s.district_id": f.EntityID})
	case hierarchy.LevelRegion:
		b = b.Where(sq.Eq{"s.region_id": f.EntityID})
	}
	if f.SchoolType != "" {
		b = b.Where(sq.Eq{"s.school_type": f.SchoolType})
	}
	return b
}

// latestWeekJoin appends the correlated max-week subquery join that resolves
// the latest submission per school within (key.Year, key.Term). The join
// guarantees at most one row per school even when several weekly submissions
// exist; schools without rows are simply absent.
func latestWeekJoin(b sq.SelectBuilder, table string, key period.Key) (sq.SelectBuilder, error) {
	sub := sq.Select("school_id", "MAX(week_number) AS week_number").
		From(table).
		Where(sq.Eq{"year": key.Year, "term": key.Term}).
		GroupBy("school_id")
	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return b, err
	}
	join := fmt.Sprintf(
		"JOIN (%s) latest ON latest.school_id = t.school_id AND latest.week_number = t.week_number",
		subSQL,
	)
	return b.JoinClause(join, subArgs...).
		Where(sq.Eq{"t.year": key.Year, "t.term": key.Term}), nil
}

// latestWeekPerTermJoin is the yearly-grain variant: latest submission per
// (school, term) across the whole year.
func latestWeekPerTermJoin(b sq.SelectBuilder, table string, year int) (sq.SelectBuilder, error) {
	sub := sq.Select("school_id", "term", "MAX(week_number) AS week_number").
		From(table).
		Where(sq.Eq{"year": year}).
		GroupBy("school_id", "term")
	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return b, err
	}
	join := fmt.Sprintf(
		"JOIN (%s) latest ON latest.school_id = t.school_id AND latest.term = t.term AND latest.week_number = t.week_number",
		subSQL,
	)
	return b.JoinClause(join, subArgs...).Where(sq.Eq{"t.year": year}), nil
}

// count reads a SQL aggregate scanned as a nullable string. NULL counts as 0
// and the total arithmetic stays in Go.
func count(ns sql.NullString) int {
	if !ns.Valid {
		return 0
	}
	return stats.ParseCount(ns.String)
}
