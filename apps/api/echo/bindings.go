package echoapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/rtp"
)

const dateLayout = "2006-01-02"

// intParam parses an optional integer query param; absent or empty reads 0.
func intParam(params url.Values, name string) (int, error) {
	val := core.CleanString(params.Get(name))
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(
			errors.Errorf("invalid %s %q", name, val),
			core.FieldError{Field: name, Error: "must be an integer"},
		)
	}
	return n, nil
}

// boolParam reads truthy query flags ("true", "1", "yes").
func boolParam(params url.Values, name string) bool {
	switch core.CleanString(params.Get(name), true) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func dateParam(params url.Values, name string) (time.Time, error) {
	val := core.CleanString(params.Get(name))
	if val == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return time.Time{}, core.NewValidationError(
			errors.Errorf("invalid %s %q", name, val),
			core.FieldError{Field: name, Error: "must be a date of the form 2024-05-31"},
		)
	}
	return t, nil
}

// reportQuery carries the period and hierarchy params shared by the
// dashboard endpoints.
type reportQuery struct {
	Key    period.Key
	Scope  hierarchy.Filter
	ViewBy period.ViewBy
}

// Bind reads period (either `period=2024-T2` or `term`+`year`), trend grain
// and the cascade hierarchy filter. `level`+`levelId` name the scope
// explicitly; otherwise the deepest of `districtId`/`regionId` wins.
func (q *reportQuery) Bind(ctx echo.Context) error {
	params := ctx.QueryParams()

	if p := core.CleanString(params.Get("period")); p != "" {
		key, err := period.Parse(p)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "period", Error: "must be a period of the form 2024-T2"})
		}
		q.Key = key
	} else {
		year, err := intParam(params, "year")
		if err != nil {
			return err
		}
		term, err := intParam(params, "term")
		if err != nil {
			return err
		}
		q.Key = period.Key{Year: year, Term: term}
	}

	viewBy, err := period.ParseViewBy(params.Get("viewBy"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "viewBy", Error: "must be terms or years"})
	}
	q.ViewBy = viewBy

	scope, err := bindScope(params)
	if err != nil {
		return err
	}
	q.Scope = scope
	return nil
}

func bindScope(params url.Values) (hierarchy.Filter, error) {
	var f hierarchy.Filter

	level, err := hierarchy.ParseLevel(params.Get("level"))
	if err != nil {
		return f, core.NewValidationError(err, core.FieldError{Field: "level", Error: "unknown level"})
	}
	f.Level = level
	f.SchoolType = core.CleanString(params.Get("schoolType"))

	if f.Level != hierarchy.LevelNational {
		if f.EntityID, err = intParam(params, "levelId"); err != nil {
			return f, err
		}
		return f, nil
	}

	// no explicit level: the deepest id param sets the scope
	districtID, err := intParam(params, "districtId")
	if err != nil {
		return f, err
	}
	regionID, err := intParam(params, "regionId")
	if err != nil {
		return f, err
	}
	switch {
	case districtID > 0:
		f.Level, f.EntityID = hierarchy.LevelDistrict, districtID
	case regionID > 0:
		f.Level, f.EntityID = hierarchy.LevelRegion, regionID
	}
	return f, nil
}

// analyticsQuery binds /api/rtp/analytics params into an rtp.Query.
func analyticsQuery(ctx echo.Context) (rtp.Query, error) {
	params := ctx.QueryParams()
	var q rtp.Query
	var err error

	if q.ItineraryID, err = intParam(params, "itineraryId"); err != nil {
		return q, err
	}
	if q.Source, err = rtp.ParseSource(params.Get("dataSource")); err != nil {
		return q, core.NewValidationError(err, core.FieldError{Field: "dataSource", Error: "must be school, district or consolidated"})
	}
	if q.Scope, err = bindScope(params); err != nil {
		return q, err
	}
	// viewMode is the legacy client's name for dataSource
	if vm := core.CleanString(params.Get("viewMode"), true); vm != "" && params.Get("dataSource") == "" {
		if q.Source, err = rtp.ParseSource(vm); err != nil {
			return q, core.NewValidationError(err, core.FieldError{Field: "viewMode", Error: "must be school, district or consolidated"})
		}
	}
	if q.QuestionID, err = intParam(params, "questionId"); err != nil {
		return q, err
	}
	if q.From, err = dateParam(params, "fromDate"); err != nil {
		return q, err
	}
	if q.To, err = dateParam(params, "toDate"); err != nil {
		return q, err
	}
	q.ShowCalcs = boolParam(params, "showCalculations")
	return q, nil
}
