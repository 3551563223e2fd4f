package enrollment

import (
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

type (
	// FactRow is one weekly enrollment submission, already resolved to the
	// latest week per school for the requested period.
	FactRow struct {
		SchoolID     int    `json:"schoolId" db:"school_id"`
		SchoolName   string `json:"schoolName" db:"school_name"`
		Year         int    `json:"year" db:"year"`
		Term         int    `json:"term" db:"term"`
		Week         int    `json:"week" db:"week_number"`
		NormalBoys   int    `json:"normalBoys" db:"normal_boys_total"`
		SpecialBoys  int    `json:"specialBoys" db:"special_boys_total"`
		NormalGirls  int    `json:"normalGirls" db:"normal_girls_total"`
		SpecialGirls int    `json:"specialGirls" db:"special_girls_total"`
	}

	// Summary is the aggregated enrollment block of the overview dashboard.
	Summary struct {
		Schools      int               `json:"schools"`
		TotalBoys    int               `json:"totalBoys"`
		TotalGirls   int               `json:"totalGirls"`
		Total        int               `json:"total"`
		SpecialNeeds stats.GenderCount `json:"specialNeeds"`
	}

	// TrendPoint is one period of the enrollment trend series.
	TrendPoint struct {
		Period string `json:"period"`
		Boys   int    `json:"boys"`
		Girls  int    `json:"girls"`
		Total  int    `json:"total"`
	}
)

func (r FactRow) TotalBoys() int  { return r.NormalBoys + r.SpecialBoys }
func (r FactRow) TotalGirls() int { return r.NormalGirls + r.SpecialGirls }

func (r FactRow) Period() period.Key {
	return period.Key{Year: r.Year, Term: r.Term, Week: r.Week}
}

// Summarize folds resolved fact rows into the dashboard summary. Schools with
// no submission for the period are simply not in rows; they are "no data",
// not zero.
func Summarize(rows []FactRow) Summary {
	var s Summary
	s.Schools = len(rows)
	for _, r := range rows {
		s.TotalBoys += r.TotalBoys()
		s.TotalGirls += r.TotalGirls()
		s.SpecialNeeds = s.SpecialNeeds.Add(stats.NewGenderCount(r.SpecialBoys, r.SpecialGirls))
	}
	s.Total = s.TotalBoys + s.TotalGirls
	return s
}
