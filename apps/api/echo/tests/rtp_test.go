package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/shule/core/rtp"
	"github.com/trezcool/shule/core/survey"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

func seedRTP() {
	db.Lock()
	defer db.Unlock()

	testutil.NumericQuestions(db.RTPSchoolQuestions, 13)
	testutil.NumericQuestions(db.RTPDistrictQuestions, 5)

	db.Itineraries = []rtp.Itinerary{{ID: 1, Title: "Term 2 visit", Year: 2024, Term: 2}}

	at := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	schoolAnswers := map[int]string{
		1: "2", 2: "3", // teacher champions m/f
		3: "5", 4: "4", // trained teachers m/f
		5: "10", 6: "12", // planning attendees m/f
		7: "1", 8: "2", // learning environments
		12: "0", 13: "5", // enrollment m/f
	}
	for qid, val := range schoolAnswers {
		db.RTPSchoolRows = append(db.RTPSchoolRows, dummydb.RTPSchoolRow{
			Row:         survey.Row{SchoolID: 1, QuestionID: qid, Numeric: val},
			ItineraryID: 1,
			SubmittedAt: at,
		})
	}
	districtAnswers := map[int]string{1: "3", 2: "2", 3: "4", 4: "1", 5: "2"}
	for qid, val := range districtAnswers {
		db.RTPDistrictRows = append(db.RTPDistrictRows, dummydb.RTPDistrictRow{
			Row:         survey.Row{QuestionID: qid, Numeric: val},
			ItineraryID: 1,
			DistrictID:  1,
			SubmittedAt: at,
		})
	}
}

type analyticsBody struct {
	Success bool `json:"success"`
	rtp.Analytics
}

func Test_rtpApi_analytics(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedRTP()

	req, rec := newRequest("/api/rtp/analytics?itineraryId=1")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body analyticsBody
	decodeBody(t, rec, &body)

	if !body.Success || body.ItineraryID != 1 || body.Source != rtp.SourceConsolidated {
		t.Errorf("success/itinerary/source = %v/%v/%q", body.Success, body.ItineraryID, body.Source)
	}

	wantTotals := map[string]struct{ male, female, total int }{
		"teacherChampions":     {2, 3, 5},
		"trainedTeachers":      {5, 4, 9},
		"planningAttendees":    {10, 12, 22},
		"learningEnvironments": {0, 0, 3},
		"enrollment":           {0, 5, 5},
		"districtTeamMembers":  {3, 2, 5},
		"schoolsVisited":       {0, 0, 5},
		"partnerEngagements":   {0, 0, 2},
	}
	for name, want := range wantTotals {
		got, ok := body.Indicators[name]
		if !ok {
			t.Errorf("indicator %q missing", name)
			continue
		}
		if got.Male != want.male || got.Female != want.female || got.Total != want.total {
			t.Errorf("%s = %+v; want %v", name, got, want)
		}
	}

	// male 0, female 5: gap counts but the percentage is suppressed
	enrGap := body.GenderGaps["enrollment"]
	if enrGap.Gap != 5 || enrGap.GapPercentage != 0 {
		t.Errorf("enrollment gap = %+v; want gap 5, gapPercentage 0", enrGap)
	}
	champGap := body.GenderGaps["teacherChampions"]
	if champGap.Gap != 1 || champGap.GapPercentage != 50 {
		t.Errorf("teacherChampions gap = %+v; want gap 1, gapPercentage 50", champGap)
	}

	if body.Calculations != nil {
		t.Errorf("calculations = %+v; want omitted without showCalculations", body.Calculations)
	}
}

func Test_rtpApi_analytics_options(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedRTP()

	t.Run("school source only", func(t *testing.T) {
		req, rec := newRequest("/api/rtp/analytics?itineraryId=1&dataSource=school")
		app.ServeHTTP(rec, req)

		var body analyticsBody
		decodeBody(t, rec, &body)
		if _, ok := body.Indicators["districtTeamMembers"]; ok {
			t.Error("district indicators must be absent for dataSource=school")
		}
		if body.Indicators["teacherChampions"].Total != 5 {
			t.Errorf("teacherChampions.total = %v; want 5", body.Indicators["teacherChampions"].Total)
		}
	})

	t.Run("showCalculations", func(t *testing.T) {
		req, rec := newRequest("/api/rtp/analytics?itineraryId=1&showCalculations=true")
		app.ServeHTTP(rec, req)

		var body analyticsBody
		decodeBody(t, rec, &body)
		if len(body.Calculations) == 0 {
			t.Fatal("calculations missing")
		}
		for _, c := range body.Calculations {
			if c.Indicator == "teacherChampions" {
				if c.GapFormula != "|2 - 3| = 1" || c.GapPercent != "50.0" {
					t.Errorf("calculation = %+v; want |2 - 3| = 1 at 50.0", c)
				}
				return
			}
		}
		t.Error("teacherChampions calculation missing")
	})

	t.Run("question breakdown", func(t *testing.T) {
		req, rec := newRequest("/api/rtp/analytics?itineraryId=1&questionId=5")
		app.ServeHTTP(rec, req)

		var body analyticsBody
		decodeBody(t, rec, &body)
		if body.Question == nil {
			t.Fatal("questionBreakdown missing")
		}
		if body.Question.QuestionID != 5 || body.Question.Answers["10"] != 1 {
			t.Errorf("questionBreakdown = %+v; want question 5 with one answer of 10", body.Question)
		}
	})

	t.Run("date bounds exclude everything", func(t *testing.T) {
		req, rec := newRequest("/api/rtp/analytics?itineraryId=1&fromDate=2025-01-01")
		app.ServeHTTP(rec, req)

		var body analyticsBody
		decodeBody(t, rec, &body)
		if body.Indicators["teacherChampions"].Total != 0 {
			t.Errorf("teacherChampions.total = %v; want 0 outside date bounds", body.Indicators["teacherChampions"].Total)
		}
	})
}

func Test_rtpApi_analytics_missingItinerary(t *testing.T) {
	resetDB(t)
	seedHierarchy()

	tt := httpTest{
		name:     "missing itineraryId",
		path:     "/api/rtp/analytics",
		wantCode: http.StatusBadRequest,
		wantData: []byte(`{"status":"error","message":"Missing required parameter: itineraryId"}`),
	}
	req, rec := newRequest(tt.path)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_rtpApi_itineraries(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedRTP()

	req, rec := newRequest("/api/rtp/itineraries")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	var body struct {
		Success     bool            `json:"success"`
		Itineraries []rtp.Itinerary `json:"itineraries"`
	}
	decodeBody(t, rec, &body)
	if !body.Success || len(body.Itineraries) != 1 || body.Itineraries[0].Title != "Term 2 visit" {
		t.Errorf("itineraries = %+v; want the seeded round", body.Itineraries)
	}
}
