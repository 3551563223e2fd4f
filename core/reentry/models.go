package reentry

import (
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

// Indicator names. The pregnancy tracker stores generic question/answer rows;
// Questions below is the single map from question ids to these indicators,
// shared by summary, trend and district queries alike.
const (
	IndPregnantInSchool = "pregnantInSchool"
	IndDropouts         = "dropouts"
	IndReentries        = "reentries"
	IndSupported        = "supportReceived"
)

var Questions = survey.Table{
	{Indicator: IndPregnantInSchool, FirstQID: 1, LastQID: 1},
	{Indicator: IndDropouts, FirstQID: 2, LastQID: 2},
	{Indicator: IndReentries, FirstQID: 3, LastQID: 3},
	{Indicator: IndSupported, FirstQID: 4, LastQID: 5},
}

type (
	// Summary is the headline block of the re-entry dashboard.
	Summary struct {
		PregnantInSchool int    `json:"pregnantInSchool"`
		Dropouts         int    `json:"dropouts"`
		Reentries        int    `json:"reentries"`
		SupportReceived  int    `json:"supportReceived"`
		ReentryRate      string `json:"reentryRate"`
	}

	// DistrictBreakdown carries the same indicators for one district.
	DistrictBreakdown struct {
		DistrictID  int    `json:"districtId"`
		District    string `json:"district"`
		Dropouts    int    `json:"dropouts"`
		Reentries   int    `json:"reentries"`
		ReentryRate string `json:"reentryRate"`
	}

	// TrendPoint is one period of the re-entry trend series.
	TrendPoint struct {
		Period      string `json:"period"`
		Dropouts    int    `json:"dropouts"`
		Reentries   int    `json:"reentries"`
		ReentryRate string `json:"reentryRate"`
	}

	// Report is the full JSON payload of /api/reentry-dashboard.
	Report struct {
		Period           string              `json:"period"`
		Level            string              `json:"level"`
		Summary          Summary             `json:"summary"`
		ByDistrict       []DistrictBreakdown `json:"byDistrict"`
		Trends           []TrendPoint        `json:"trends"`
		AvailablePeriods []string            `json:"availablePeriods"`
		AvailableLevels  []string            `json:"availableLevels"`
	}
)

// summarize maps raw indicator sums to the summary shape. Missing indicators
// read as 0; the rate is guarded against a zero dropout count.
func summarize(sums map[string]int) Summary {
	s := Summary{
		PregnantInSchool: sums[IndPregnantInSchool],
		Dropouts:         sums[IndDropouts],
		Reentries:        sums[IndReentries],
		SupportReceived:  sums[IndSupported],
	}
	s.ReentryRate = stats.FormatPercent(s.Reentries, s.Dropouts)
	return s
}
