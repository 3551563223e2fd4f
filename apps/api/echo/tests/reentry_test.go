package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/reentry"
	testutil "github.com/trezcool/shule/tests"
)

func seedReentry() {
	db.Lock()
	defer db.Unlock()

	testutil.NumericQuestions(db.ReentryQuestions, 5)
	db.ReentryRows = append(db.ReentryRows,
		// school 1, 2024-T2: week 4 supersedes week 2
		testutil.NumericRow(1, 1, 2024, 2, 2, "9"),
		testutil.NumericRow(1, 2, 2024, 2, 2, "9"),
		testutil.NumericRow(1, 1, 2024, 2, 4, "3"),
		testutil.NumericRow(1, 2, 2024, 2, 4, "6"),
		testutil.NumericRow(1, 3, 2024, 2, 4, "2"),
		testutil.NumericRow(1, 4, 2024, 2, 4, "1"),
		testutil.NumericRow(1, 5, 2024, 2, 4, "1"),
		// school 2, 2024-T2
		testutil.NumericRow(2, 2, 2024, 2, 3, "3"),
		testutil.NumericRow(2, 3, 2024, 2, 3, "1"),
		// earlier period for the trend series
		testutil.NumericRow(1, 2, 2023, 3, 8, "2"),
		testutil.NumericRow(1, 3, 2023, 3, 8, "1"),
	)
}

type reentryBody struct {
	Success bool `json:"success"`
	reentry.Report
}

func Test_reentryApi_report(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedReentry()

	req, rec := newRequest("/api/reentry-dashboard")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body reentryBody
	decodeBody(t, rec, &body)

	if !body.Success || body.Period != "2024-T2" || body.Level != "national" {
		t.Errorf("success/period/level = %v/%q/%q; want true/2024-T2/national", body.Success, body.Period, body.Level)
	}

	// school 1 week 4 only: 3 pregnant, 6 dropouts, 2 reentries, 2 supported;
	// school 2 adds 3 dropouts, 1 reentry
	s := body.Summary
	if s.PregnantInSchool != 3 || s.Dropouts != 9 || s.Reentries != 3 || s.SupportReceived != 2 {
		t.Errorf("summary = %+v; want 3/9/3/2", s)
	}
	if s.ReentryRate != "33.3" {
		t.Errorf("reentryRate = %q; want 33.3", s.ReentryRate)
	}

	if len(body.ByDistrict) != 2 {
		t.Fatalf("byDistrict len = %v; want 2", len(body.ByDistrict))
	}
	if body.ByDistrict[0].District != "Moshi" || body.ByDistrict[0].Dropouts != 6 || body.ByDistrict[0].Reentries != 2 {
		t.Errorf("byDistrict[0] = %+v; want Moshi 6/2", body.ByDistrict[0])
	}

	if len(body.Trends) != 2 || body.Trends[0].Period != "2023-T3" || body.Trends[1].Period != "2024-T2" {
		t.Errorf("trends = %+v; want 2023-T3 then 2024-T2", body.Trends)
	}

	if len(body.AvailablePeriods) != 2 || body.AvailablePeriods[0] != "2024-T2" {
		t.Errorf("availablePeriods = %v; want [2024-T2 2023-T3]", body.AvailablePeriods)
	}
	if len(body.AvailableLevels) == 0 || body.AvailableLevels[0] != "national" {
		t.Errorf("availableLevels = %v; want national first", body.AvailableLevels)
	}
}

func Test_reentryApi_report_regionScope(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedReentry()

	req, rec := newRequest("/api/reentry-dashboard?level=region&levelId=1&period=2024-T2")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body reentryBody
	decodeBody(t, rec, &body)

	if body.Summary.Dropouts != 6 || body.Summary.Reentries != 2 {
		t.Errorf("summary = %+v; want region 1 only (6 dropouts, 2 reentries)", body.Summary)
	}
	// the breakdown follows the region filter, only its own districts appear
	if len(body.ByDistrict) != 1 {
		t.Fatalf("byDistrict = %+v; want only region 1's district", body.ByDistrict)
	}
	if d := body.ByDistrict[0]; d.District != "Moshi" || d.Dropouts != 6 || d.Reentries != 2 {
		t.Errorf("byDistrict[0] = %+v; want Moshi 6/2", d)
	}
}

func Test_reentryApi_report_scoped(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedReentry()

	req, rec := newRequest("/api/reentry-dashboard?level=district&levelId=2&period=2024-T2")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body reentryBody
	decodeBody(t, rec, &body)

	if body.Level != "district" {
		t.Errorf("level = %q; want district", body.Level)
	}
	if body.Summary.Dropouts != 3 || body.Summary.Reentries != 1 {
		t.Errorf("summary = %+v; want district 2 only (3 dropouts, 1 reentry)", body.Summary)
	}
	// breakdown is withheld below region scope
	if len(body.ByDistrict) != 0 {
		t.Errorf("byDistrict = %+v; want empty at district scope", body.ByDistrict)
	}
}

func Test_reentryApi_report_validation(t *testing.T) {
	resetDB(t)
	seedHierarchy()

	tests := []httpTest{
		{
			name:     "unknown level",
			path:     "/api/reentry-dashboard?level=galaxy",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"level": "unknown level"},
			}),
		},
		{
			name:     "scoped level without id",
			path:     "/api/reentry-dashboard?level=district",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]interface{}{
				"success": false,
				"error":   `level "district" requires an entity id`,
			}),
		},
		{
			name:     "malformed period",
			path:     "/api/reentry-dashboard?period=2024-X9",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"period": "must be a period of the form 2024-T2"},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
