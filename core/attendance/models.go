package attendance

import (
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

type (
	// StudentRow is one weekly student-attendance submission, resolved to the
	// latest week per school for the requested period.
	StudentRow struct {
		SchoolID      int    `json:"schoolId" db:"school_id"`
		SchoolName    string `json:"schoolName" db:"school_name"`
		Year          int    `json:"year" db:"year"`
		Term          int    `json:"term" db:"term"`
		Week          int    `json:"week" db:"week_number"`
		BoysPresent   int    `json:"boysPresent" db:"boys_present"`
		GirlsPresent  int    `json:"girlsPresent" db:"girls_present"`
		BoysEnrolled  int    `json:"boysEnrolled" db:"boys_enrolled"`
		GirlsEnrolled int    `json:"girlsEnrolled" db:"girls_enrolled"`
	}

	// TeacherRow is the teacher-attendance sibling of StudentRow.
	TeacherRow struct {
		SchoolID      int    `json:"schoolId" db:"school_id"`
		SchoolName    string `json:"schoolName" db:"school_name"`
		Year          int    `json:"year" db:"year"`
		Term          int    `json:"term" db:"term"`
		Week          int    `json:"week" db:"week_number"`
		MalePresent   int    `json:"malePresent" db:"male_present"`
		FemalePresent int    `json:"femalePresent" db:"female_present"`
		MaleExpected  int    `json:"maleExpected" db:"male_expected"`
		FemaleExpected int   `json:"femaleExpected" db:"female_expected"`
	}

	// Summary is the attendance block of the overview dashboard. Rates carry
	// the one-decimal string formatting the UI renders verbatim.
	Summary struct {
		Schools               int               `json:"schools"`
		Present               stats.GenderCount `json:"present"`
		Enrolled              stats.GenderCount `json:"enrolled"`
		AttendanceRate        string            `json:"attendanceRate"`
		TeachersPresent       stats.GenderCount `json:"teachersPresent"`
		TeachersExpected      stats.GenderCount `json:"teachersExpected"`
		TeacherAttendanceRate string            `json:"teacherAttendanceRate"`
	}

	// TrendPoint is one period of the attendance trend series.
	TrendPoint struct {
		Period         string `json:"period"`
		Present        int    `json:"present"`
		Enrolled       int    `json:"enrolled"`
		AttendanceRate string `json:"attendanceRate"`
	}
)

func (r StudentRow) Period() period.Key {
	return period.Key{Year: r.Year, Term: r.Term, Week: r.Week}
}

// Summarize folds resolved rows into the dashboard summary. A zero enrolled
// population yields a "0.0" rate, never a division error.
func Summarize(students []StudentRow, teachers []TeacherRow) Summary {
	var s Summary
	s.Schools = len(students)
	for _, r := range students {
		s.Present = s.Present.Add(stats.NewGenderCount(r.BoysPresent, r.GirlsPresent))
		s.Enrolled = s.Enrolled.Add(stats.NewGenderCount(r.BoysEnrolled, r.GirlsEnrolled))
	}
	for _, r := range teachers {
		s.TeachersPresent = s.TeachersPresent.Add(stats.NewGenderCount(r.MalePresent, r.FemalePresent))
		s.TeachersExpected = s.TeachersExpected.Add(stats.NewGenderCount(r.MaleExpected, r.FemaleExpected))
	}
	s.AttendanceRate = stats.FormatPercent(s.Present.Total, s.Enrolled.Total)
	s.TeacherAttendanceRate = stats.FormatPercent(s.TeachersPresent.Total, s.TeachersExpected.Total)
	return s
}
