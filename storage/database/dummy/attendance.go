package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) Snapshot(ctx context.Context, fn func(attendance.Repository) error) error {
	return fn(repo)
}

func (repo *attendanceRepository) keys() []period.Key {
	keys := make([]period.Key, 0, len(repo.db.StudentRows))
	for _, r := range repo.db.StudentRows {
		keys = append(keys, r.Period())
	}
	return keys
}

func (repo *attendanceRepository) LatestPeriod(ctx context.Context) (period.Key, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())
	if len(periods) == 0 {
		return period.Key{}, attendance.ErrNoData
	}
	return periods[0], nil
}

func (repo *attendanceRepository) LatestStudentRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]attendance.StudentRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.latestStudentRows(scope, key), nil
}

func (repo *attendanceRepository) latestStudentRows(scope hierarchy.Filter, key period.Key) []attendance.StudentRow {
	maxWeek := map[int]int{}
	for _, r := range repo.db.StudentRows {
		if r.Year != key.Year || r.Term != key.Term || !repo.db.inScope(r.SchoolID, scope) {
			continue
		}
		if r.Week > maxWeek[r.SchoolID] {
			maxWeek[r.SchoolID] = r.Week
		}
	}
	var out []attendance.StudentRow
	for _, r := range repo.db.StudentRows {
		if r.Year == key.Year && r.Term == key.Term && repo.db.inScope(r.SchoolID, scope) && r.Week == maxWeek[r.SchoolID] {
			r.SchoolName = repo.db.schoolName(r.SchoolID)
			out = append(out, r)
		}
	}
	return out
}

func (repo *attendanceRepository) LatestTeacherRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]attendance.TeacherRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	maxWeek := map[int]int{}
	for _, r := range repo.db.TeacherRows {
		if r.Year != key.Year || r.Term != key.Term || !repo.db.inScope(r.SchoolID, scope) {
			continue
		}
		if r.Week > maxWeek[r.SchoolID] {
			maxWeek[r.SchoolID] = r.Week
		}
	}
	var out []attendance.TeacherRow
	for _, r := range repo.db.TeacherRows {
		if r.Year == key.Year && r.Term == key.Term && repo.db.inScope(r.SchoolID, scope) && r.Week == maxWeek[r.SchoolID] {
			r.SchoolName = repo.db.schoolName(r.SchoolID)
			out = append(out, r)
		}
	}
	return out, nil
}

func (repo *attendanceRepository) RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]attendance.TrendPoint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := distinctPeriods(repo.keys())

	var points []attendance.TrendPoint
	if viewBy == period.ViewByYears {
		for _, y := range distinctYears(repo.keys()) {
			if limit > 0 && len(points) == limit {
				break
			}
			pt := attendance.TrendPoint{Period: period.Key{Year: y}.YearLabel()}
			for _, p := range periods {
				if p.Year != y {
					continue
				}
				for _, r := range repo.latestStudentRows(scope, p) {
					pt.Present += r.BoysPresent + r.GirlsPresent
					pt.Enrolled += r.BoysEnrolled + r.GirlsEnrolled
				}
			}
			pt.AttendanceRate = stats.FormatPercent(pt.Present, pt.Enrolled)
			points = append(points, pt)
		}
		return points, nil
	}
	for _, p := range periods {
		if limit > 0 && len(points) == limit {
			break
		}
		pt := attendance.TrendPoint{Period: p.Label()}
		for _, r := range repo.latestStudentRows(scope, p) {
			pt.Present += r.BoysPresent + r.GirlsPresent
			pt.Enrolled += r.BoysEnrolled + r.GirlsEnrolled
		}
		pt.AttendanceRate = stats.FormatPercent(pt.Present, pt.Enrolled)
		points = append(points, pt)
	}
	return points, nil
}
