package database

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

const (
	studentAttendanceTable = "student_attendance_totals"
	teacherAttendanceTable = "teacher_attendance_totals"
)

type attendanceRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{q: db, db: db}
}

func (repo *attendanceRepository) Snapshot(ctx context.Context, fn func(attendance.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&attendanceRepository{q: q, db: repo.db})
	})
}

func (repo *attendanceRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	return latestPeriod(ctx, repo.q, studentAttendanceTable, attendance.ErrNoData)
}

func (repo *attendanceRepository) LatestStudentRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]attendance.StudentRow, error) {
	b := sq.Select(
		"t.school_id", "s.name AS school_name", "t.year", "t.term", "t.week_number",
		"t.boys_present", "t.girls_present", "t.boys_enrolled", "t.girls_enrolled",
	).From(studentAttendanceTable + " t")

	b, err := latestWeekJoin(b, studentAttendanceTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building latest student attendance query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building latest student attendance query")
	}

	rows := []attendance.StudentRow{}
	if err = sqlx.SelectContext(ctx, repo.q, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching latest student attendance rows")
	}
	return rows, nil
}

func (repo *attendanceRepository) LatestTeacherRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]attendance.TeacherRow, error) {
	b := sq.Select(
		"t.school_id", "s.name AS school_name", "t.year", "t.term", "t.week_number",
		"t.male_present", "t.female_present", "t.male_expected", "t.female_expected",
	).From(teacherAttendanceTable + " t")

	b, err := latestWeekJoin(b, teacherAttendanceTable, key)
	if err != nil {
		return nil, errors.Wrap(err, "building latest teacher attendance query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building latest teacher attendance query")
	}

	rows := []attendance.TeacherRow{}
	if err = sqlx.SelectContext(ctx, repo.q, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching latest teacher attendance rows")
	}
	return rows, nil
}

type attendanceSums struct {
	Year     int            `db:"year"`
	Term     int            `db:"term"`
	Present  sql.NullString `db:"present"`
	Enrolled sql.NullString `db:"enrolled"`
}

func (repo *attendanceRepository) RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]attendance.TrendPoint, error) {
	keys, err := availablePeriods(ctx, repo.q, studentAttendanceTable, limit)
	if err != nil {
		return nil, err
	}
	if viewBy == period.ViewByYears {
		years, err := availableYears(ctx, repo.q, studentAttendanceTable, limit)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, y := range years {
			keys = append(keys, period.Key{Year: y})
		}
	}

	points := make([]attendance.TrendPoint, 0, len(keys))
	for _, key := range keys {
		row, err := repo.periodSums(ctx, scope, key, viewBy)
		if err != nil {
			return nil, err
		}
		label := key.Label()
		if viewBy == period.ViewByYears {
			label = key.YearLabel()
		}
		present, enrolled := count(row.Present), count(row.Enrolled)
		points = append(points, attendance.TrendPoint{
			Period:         label,
			Present:        present,
			Enrolled:       enrolled,
			AttendanceRate: stats.FormatPercent(present, enrolled),
		})
	}
	return points, nil
}

func (repo *attendanceRepository) periodSums(ctx context.Context, scope hierarchy.Filter, key period.Key, viewBy period.ViewBy) (attendanceSums, error) {
	b := sq.Select(
		"SUM(t.boys_present + t.girls_present) AS present",
		"SUM(t.boys_enrolled + t.girls_enrolled) AS enrolled",
	).From(studentAttendanceTable + " t")

	var err error
	if viewBy == period.ViewByYears {
		b, err = latestWeekPerTermJoin(b, studentAttendanceTable, key.Year)
	} else {
		b, err = latestWeekJoin(b, studentAttendanceTable, key)
	}
	if err != nil {
		return attendanceSums{}, errors.Wrap(err, "building attendance sums query")
	}
	b = scopeSchools(b, scope)

	query, args, err := b.ToSql()
	if err != nil {
		return attendanceSums{}, errors.Wrap(err, "building attendance sums query")
	}

	row := attendanceSums{Year: key.Year, Term: key.Term}
	if err = sqlx.GetContext(ctx, repo.q, &row, query, args...); err != nil && err != sql.ErrNoRows {
		return attendanceSums{}, errors.Wrap(err, "fetching attendance sums")
	}
	return row, nil
}
