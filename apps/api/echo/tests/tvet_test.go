package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/tvet"
	testutil "github.com/trezcool/shule/tests"
)

func seedTVET() {
	db.Lock()
	defer db.Unlock()

	testutil.NumericQuestions(db.TVETQuestions, 6)
	db.TVETRows = append(db.TVETRows,
		// institution 3 (district 2), 2024-T2: week 6 supersedes week 2
		testutil.NumericRow(3, 1, 2024, 2, 2, "99"),
		testutil.NumericRow(3, 1, 2024, 2, 6, "40"), // trainees m
		testutil.NumericRow(3, 2, 2024, 2, 6, "35"), // trainees f
		testutil.NumericRow(3, 3, 2024, 2, 6, "20"), // completers m
		testutil.NumericRow(3, 4, 2024, 2, 6, "16"), // completers f
		testutil.NumericRow(3, 5, 2024, 2, 6, "6"),  // placements m
		testutil.NumericRow(3, 6, 2024, 2, 6, "6"),  // placements f
		// institution 1 (district 1)
		testutil.NumericRow(1, 1, 2024, 2, 5, "10"),
		testutil.NumericRow(1, 2, 2024, 2, 5, "15"),
		testutil.NumericRow(1, 3, 2024, 2, 5, "5"),
		testutil.NumericRow(1, 4, 2024, 2, 5, "5"),
		// earlier period
		testutil.NumericRow(3, 1, 2024, 1, 9, "30"),
		testutil.NumericRow(3, 2, 2024, 1, 9, "28"),
	)
}

type tvetBody struct {
	Success bool `json:"success"`
	tvet.Report
}

func Test_tvetApi_report(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedTVET()

	req, rec := newRequest("/api/tvet-dashboard")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body tvetBody
	decodeBody(t, rec, &body)

	if !body.Success || body.Period != "2024-T2" {
		t.Errorf("success/period = %v/%q; want true/2024-T2", body.Success, body.Period)
	}

	s := body.Summary
	if s.Institutions != 2 {
		t.Errorf("institutions = %v; want 2", s.Institutions)
	}
	if s.Trainees.Male != 50 || s.Trainees.Female != 50 || s.Trainees.Total != 100 {
		t.Errorf("trainees = %+v; want 50/50/100", s.Trainees)
	}
	if s.Completers.Total != 46 || s.Placements.Total != 12 {
		t.Errorf("completers/placements = %v/%v; want 46/12", s.Completers.Total, s.Placements.Total)
	}
	// 12 placements out of 46 completers
	if s.PlacementRate != "26.1" {
		t.Errorf("placementRate = %q; want 26.1", s.PlacementRate)
	}

	if len(body.Trends) != 2 || body.Trends[0].Period != "2024-T1" {
		t.Errorf("trends = %+v; want 2024-T1 first", body.Trends)
	}
	if body.Trends[0].Trainees != 58 {
		t.Errorf("trends[0].trainees = %v; want 58", body.Trends[0].Trainees)
	}
}

func Test_tvetApi_hierarchy(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedTVET()

	req, rec := newRequest("/api/tvet-dashboard/hierarchy")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body struct {
		Success bool                `json:"success"`
		Period  string              `json:"period"`
		Regions []tvet.RegionRollup `json:"regions"`
	}
	decodeBody(t, rec, &body)

	if !body.Success || body.Period != "2024-T2" {
		t.Errorf("success/period = %v/%q; want true/2024-T2", body.Success, body.Period)
	}
	if len(body.Regions) != 2 {
		t.Fatalf("regions len = %v; want 2", len(body.Regions))
	}

	// region 1 holds institution 1 via district 1
	r1 := body.Regions[0]
	if r1.Region != "Kaskazini" || r1.Trainees.Total != 25 {
		t.Errorf("regions[0] = %+v; want Kaskazini with 25 trainees", r1)
	}
	if len(r1.Districts) != 1 || r1.Districts[0].Schools != 1 {
		t.Errorf("regions[0].districts = %+v; want one district with one school", r1.Districts)
	}

	r2 := body.Regions[1]
	if r2.Trainees.Male != 40 || r2.Trainees.Female != 35 {
		t.Errorf("regions[1].trainees = %+v; want 40/35", r2.Trainees)
	}
}
