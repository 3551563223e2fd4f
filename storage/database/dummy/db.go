// Package dummydb provides in-memory repositories for tests. Latest-week
// resolution and indicator folding mirror the SQL repositories' behavior so
// service and API tests exercise the same semantics without a database.
package dummydb

import (
	"sort"
	"sync"
	"time"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/rtp"
	"github.com/trezcool/shule/core/survey"
	"github.com/trezcool/shule/core/wash"
)

type (
	// School mirrors one row of the schools table, denormalized ancestry
	// included.
	School struct {
		ID         int
		CircuitID  int
		DistrictID int
		RegionID   int
		Name       string
		Type       string
	}

	// PivotRow is one survey response row with its reporting period.
	PivotRow struct {
		survey.Row
		Year int
		Term int
		Week int
	}

	// RTPSchoolRow and RTPDistrictRow hang off an itinerary instead.
	RTPSchoolRow struct {
		survey.Row
		ItineraryID int
		SubmittedAt time.Time
	}

	RTPDistrictRow struct {
		survey.Row
		ItineraryID int
		DistrictID  int
		SubmittedAt time.Time
	}

	// DB is the in-memory store. Tests seed the exported tables directly
	// before serving; repositories only read under the lock.
	DB struct {
		sync.RWMutex

		Regions   []hierarchy.Node
		Districts []hierarchy.Node
		Circuits  []hierarchy.Node
		Schools   []School

		EnrollmentRows []enrollment.FactRow
		StudentRows    []attendance.StudentRow
		TeacherRows    []attendance.TeacherRow
		WashRows       []wash.FactRow

		ReentryRows      []PivotRow
		ReentryQuestions map[int]survey.Meta
		TVETRows         []PivotRow
		TVETQuestions    map[int]survey.Meta

		Itineraries          []rtp.Itinerary
		RTPSchoolRows        []RTPSchoolRow
		RTPDistrictRows      []RTPDistrictRow
		RTPSchoolQuestions   map[int]survey.Meta
		RTPDistrictQuestions map[int]survey.Meta

		Activities []dashboard.Activity
	}
)

func Open() (*DB, error) {
	return &DB{
		ReentryQuestions:     make(map[int]survey.Meta),
		TVETQuestions:        make(map[int]survey.Meta),
		RTPSchoolQuestions:   make(map[int]survey.Meta),
		RTPDistrictQuestions: make(map[int]survey.Meta),
	}, nil
}

// inScope reports whether the school passes the hierarchy filter.
func (db *DB) inScope(schoolID int, f hierarchy.Filter) bool {
	for _, s := range db.Schools {
		if s.ID != schoolID {
			continue
		}
		if f.SchoolType != "" && s.Type != f.SchoolType {
			return false
		}
		switch f.Level {
		case hierarchy.LevelSchool:
			return s.ID == f.EntityID
		case hierarchy.LevelCircuit:
			return s.CircuitID == f.EntityID
		case hierarchy.LevelDistrict:
			return s.DistrictID == f.EntityID
		case hierarchy.LevelRegion:
			return s.RegionID == f.EntityID
		default:
			return true
		}
	}
	return false
}

func (db *DB) schoolName(id int) string {
	for _, s := range db.Schools {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

// sortKeysDesc orders period keys most recent first.
func sortKeysDesc(keys []period.Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[j].Compare(keys[i]) < 0 })
}

// distinctPeriods lists the distinct (year, term) pairs present in keys,
// most recent first.
func distinctPeriods(keys []period.Key) []period.Key {
	seen := map[period.Key]bool{}
	var out []period.Key
	for _, k := range keys {
		p := period.Key{Year: k.Year, Term: k.Term}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sortKeysDesc(out)
	return out
}

// distinctYears lists the distinct years present in keys, most recent first.
func distinctYears(keys []period.Key) []int {
	seen := map[int]bool{}
	var out []int
	for _, k := range keys {
		if !seen[k.Year] {
			seen[k.Year] = true
			out = append(out, k.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// foldPivot resolves each row's answer per the question bank and sums counts
// into the mapping table's indicators.
func foldPivot(rows []survey.Row, metas map[int]survey.Meta, table survey.Table) map[string]int {
	sums := map[string]int{}
	for _, m := range table {
		sums[m.Indicator] = 0
	}
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

// foldPivotByGender is foldPivot keyed additionally by the mapping's gender.
func foldPivotByGender(rows []survey.Row, metas map[int]survey.Meta, table survey.Table) map[string]map[survey.Gender]int {
	sums := map[string]map[survey.Gender]int{}
	for _, m := range table {
		if sums[m.Indicator] == nil {
			sums[m.Indicator] = map[survey.Gender]int{}
		}
	}
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
		sums[m.Indicator][m.Gender] += ans.Count()
	}
	return sums
}

// latestPivot keeps only each school's max-week rows within (year, term).
func latestPivot(rows []PivotRow, scope func(schoolID int) bool, key period.Key) []survey.Row {
	maxWeek := map[int]int{}
	for _, r := range rows {
		if r.Year != key.Year || r.Term != key.Term || !scope(r.SchoolID) {
			continue
		}
		if r.Week > maxWeek[r.SchoolID] {
			maxWeek[r.SchoolID] = r.Week
		}
	}
	var out []survey.Row
	for _, r := range rows {
		if r.Year == key.Year && r.Term == key.Term && scope(r.SchoolID) && r.Week == maxWeek[r.SchoolID] {
			out = append(out, r.Row)
		}
	}
	return out
}

// yearPivot keeps each school's max-week rows per term across a year.
func yearPivot(rows []PivotRow, scope func(schoolID int) bool, year int) []survey.Row {
	type st struct{ school, term int }
	maxWeek := map[st]int{}
	for _, r := range rows {
		if r.Year != year || !scope(r.SchoolID) {
			continue
		}
		k := st{r.SchoolID, r.Term}
		if r.Week > maxWeek[k] {
			maxWeek[k] = r.Week
		}
	}
	var out []survey.Row
	for _, r := range rows {
		if r.Year == year && scope(r.SchoolID) && r.Week == maxWeek[st{r.SchoolID, r.Term}] {
			out = append(out, r.Row)
		}
	}
	return out
}
