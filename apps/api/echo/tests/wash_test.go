package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/wash"
)

func seedWash() {
	db.Lock()
	defer db.Unlock()

	db.WashRows = []wash.FactRow{
		// school 1, 2024-T2: week 5 supersedes week 1
		{SchoolID: 1, Year: 2024, Term: 2, Week: 1, WaterFunctional: false, ToiletsBoys: 1, ToiletsGirls: 1},
		{SchoolID: 1, Year: 2024, Term: 2, Week: 5, WaterFunctional: true, ToiletsBoys: 4, ToiletsGirls: 5, HandwashingStations: 3, SoapAvailable: true},
		{SchoolID: 2, Year: 2024, Term: 2, Week: 4, WaterFunctional: false, ToiletsBoys: 2, ToiletsGirls: 2, HandwashingStations: 1},
		{SchoolID: 3, Year: 2024, Term: 2, Week: 4, WaterFunctional: true, ToiletsBoys: 6, ToiletsGirls: 6, HandwashingStations: 4, SoapAvailable: true},
		// earlier period
		{SchoolID: 1, Year: 2024, Term: 1, Week: 11, WaterFunctional: true, ToiletsBoys: 4, ToiletsGirls: 4},
	}
}

type washBody struct {
	Success bool `json:"success"`
	wash.Report
}

func Test_washApi_report(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedWash()

	req, rec := newRequest("/api/wash-dashboard")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body washBody
	decodeBody(t, rec, &body)

	if !body.Success || body.Period != "2024-T2" || body.Level != "national" {
		t.Errorf("success/period/level = %v/%q/%q; want true/2024-T2/national", body.Success, body.Period, body.Level)
	}

	s := body.Summary
	if s.SchoolsSurveyed != 3 {
		t.Errorf("schoolsSurveyed = %v; want 3", s.SchoolsSurveyed)
	}
	// 2 of 3 surveyed schools have functional water
	if s.WaterAccessRate != "66.7" {
		t.Errorf("waterAccessRate = %q; want 66.7", s.WaterAccessRate)
	}
	if s.SoapAvailableRate != "66.7" {
		t.Errorf("soapAvailableRate = %q; want 66.7", s.SoapAvailableRate)
	}
	if s.Toilets.Male != 12 || s.Toilets.Female != 13 {
		t.Errorf("toilets = %+v; want 12/13", s.Toilets)
	}
	if s.HandwashingStations != 8 {
		t.Errorf("handwashingStations = %v; want 8", s.HandwashingStations)
	}

	if len(body.Trends) != 2 || body.Trends[0].Period != "2024-T1" || body.Trends[1].Period != "2024-T2" {
		t.Errorf("trends = %+v; want 2024-T1 then 2024-T2", body.Trends)
	}
	if body.Trends[0].WaterAccessRate != "100.0" {
		t.Errorf("trends[0].waterAccessRate = %q; want 100.0", body.Trends[0].WaterAccessRate)
	}
}

func Test_washApi_report_schoolScope(t *testing.T) {
	resetDB(t)
	seedHierarchy()
	seedWash()

	req, rec := newRequest("/api/wash-dashboard?level=school&levelId=2")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body washBody
	decodeBody(t, rec, &body)

	if body.Summary.SchoolsSurveyed != 1 || body.Summary.WaterAccessRate != "0.0" {
		t.Errorf("summary = %+v; want school 2 only, no water access", body.Summary)
	}
}
