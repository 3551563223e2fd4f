package rtp

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

// Source selects which response tables feed the analytics.
type Source string

const (
	SourceSchool       Source = "school"
	SourceDistrict     Source = "district"
	SourceConsolidated Source = "consolidated"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceConsolidated, nil
	case SourceSchool, SourceDistrict, SourceConsolidated:
		return src, nil
	default:
		return "", errors.Errorf("unknown data source %q", s)
	}
}

// Indicator names computed from the school-output and district-output
// questionnaires.
const (
	IndTeacherChampions     = "teacherChampions"
	IndTrainedTeachers      = "trainedTeachers"
	IndPlanningAttendees    = "planningAttendees"
	IndLearningEnvironments = "learningEnvironments"
	IndEnrollment           = "enrollment"
	IndDistrictTeamMembers  = "districtTeamMembers"
	IndSchoolsVisited       = "schoolsVisited"
	IndPartnerEngagements   = "partnerEngagements"
)

// SchoolQuestions and DistrictQuestions are the only question → indicator
// maps for the RTP tables. Every endpoint reading these tables aggregates
// through them.
var (
	SchoolQuestions = survey.Table{
		{Indicator: IndTeacherChampions, Gender: survey.Male, FirstQID: 1, LastQID: 1},
		{Indicator: IndTeacherChampions, Gender: survey.Female, FirstQID: 2, LastQID: 2},
		{Indicator: IndTrainedTeachers, Gender: survey.Male, FirstQID: 3, LastQID: 3},
		{Indicator: IndTrainedTeachers, Gender: survey.Female, FirstQID: 4, LastQID: 4},
		{Indicator: IndPlanningAttendees, Gender: survey.Male, FirstQID: 5, LastQID: 5},
		{Indicator: IndPlanningAttendees, Gender: survey.Female, FirstQID: 6, LastQID: 6},
		{Indicator: IndLearningEnvironments, FirstQID: 7, LastQID: 8},
		{Indicator: IndEnrollment, Gender: survey.Male, FirstQID: 12, LastQID: 12},
		{Indicator: IndEnrollment, Gender: survey.Female, FirstQID: 13, LastQID: 13},
	}

	DistrictQuestions = survey.Table{
		{Indicator: IndDistrictTeamMembers, Gender: survey.Male, FirstQID: 1, LastQID: 1},
		{Indicator: IndDistrictTeamMembers, Gender: survey.Female, FirstQID: 2, LastQID: 2},
		{Indicator: IndSchoolsVisited, FirstQID: 3, LastQID: 4},
		{Indicator: IndPartnerEngagements, FirstQID: 5, LastQID: 5},
	}
)

// gendered lists the indicators reported with a gender gap.
var gendered = []string{
	IndTeacherChampions,
	IndTrainedTeachers,
	IndPlanningAttendees,
	IndEnrollment,
	IndDistrictTeamMembers,
}

type (
	// Query scopes one analytics request.
	Query struct {
		ItineraryID int
		Source      Source
		Scope       hierarchy.Filter
		QuestionID  int
		From, To    time.Time
		ShowCalcs   bool
	}

	// Calculation exposes the raw arithmetic behind one indicator when
	// showCalculations is requested.
	Calculation struct {
		Indicator  string `json:"indicator"`
		Male       int    `json:"male"`
		Female     int    `json:"female"`
		Total      int    `json:"total"`
		GapFormula string `json:"gapFormula"`
		GapPercent string `json:"gapPercent"`
	}

	// Distribution is the per-answer breakdown of a single question.
	Distribution struct {
		QuestionID int                 `json:"questionId"`
		Question   string              `json:"question"`
		Type       survey.QuestionType `json:"type"`
		Answers    map[string]int      `json:"answers"`
	}

	// Analytics is the JSON payload of /api/rtp/analytics.
	Analytics struct {
		ItineraryID  int                          `json:"itineraryId"`
		Source       Source                       `json:"dataSource"`
		Indicators   map[string]stats.GenderCount `json:"indicators"`
		GenderGaps   map[string]stats.GenderGap   `json:"genderGaps"`
		Calculations []Calculation                `json:"calculations,omitempty"`
		Question     *Distribution                `json:"questionBreakdown,omitempty"`
	}

	// Itinerary is one data-collection round.
	Itinerary struct {
		ID    int    `json:"id" db:"id"`
		Title string `json:"title" db:"title"`
		Year  int    `json:"year" db:"year"`
		Term  int    `json:"term" db:"term"`
	}
)
