package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/survey"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

type httpTest struct {
	name     string
	path     string
	wantCode int
	wantData []byte
}

func newRequest(path string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// resetDB empties every table; each test reseeds what it needs.
func resetDB(t *testing.T) {
	t.Helper()
	db.Lock()
	defer db.Unlock()

	db.Regions, db.Districts, db.Circuits, db.Schools = nil, nil, nil, nil
	db.EnrollmentRows, db.StudentRows, db.TeacherRows, db.WashRows = nil, nil, nil, nil
	db.ReentryRows, db.TVETRows = nil, nil
	db.ReentryQuestions = map[int]survey.Meta{}
	db.TVETQuestions = map[int]survey.Meta{}
	db.Itineraries, db.RTPSchoolRows, db.RTPDistrictRows = nil, nil, nil
	db.RTPSchoolQuestions = map[int]survey.Meta{}
	db.RTPDistrictQuestions = map[int]survey.Meta{}
	db.Activities = nil
}

// seedHierarchy installs two regions each holding one district, circuit and
// school; school 3 is the second district's TVET institution.
func seedHierarchy() {
	db.Lock()
	defer db.Unlock()

	db.Regions = []hierarchy.Node{{ID: 1, Name: "Kaskazini"}, {ID: 2, Name: "Kusini"}}
	db.Districts = []hierarchy.Node{
		{ID: 1, Name: "Moshi", ParentID: 1},
		{ID: 2, Name: "Mtwara", ParentID: 2},
	}
	db.Circuits = []hierarchy.Node{
		{ID: 1, Name: "Moshi Mjini", ParentID: 1},
		{ID: 2, Name: "Mtwara Mjini", ParentID: 2},
	}
	db.Schools = []dummydb.School{
		{ID: 1, CircuitID: 1, DistrictID: 1, RegionID: 1, Name: "Mwenge Primary", Type: "primary"},
		{ID: 2, CircuitID: 2, DistrictID: 2, RegionID: 2, Name: "Bahari Primary", Type: "primary"},
		{ID: 3, CircuitID: 2, DistrictID: 2, RegionID: 2, Name: "Pwani Technical", Type: "tvet"},
	}
}
