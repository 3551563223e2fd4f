package tvet

import (
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

// Indicator names computed from the TVET tracker questionnaire.
const (
	IndTrainees   = "trainees"
	IndCompleters = "completers"
	IndPlacements = "placements"
)

// Questions is the single question → indicator map for the TVET tracker.
var Questions = survey.Table{
	{Indicator: IndTrainees, Gender: survey.Male, FirstQID: 1, LastQID: 1},
	{Indicator: IndTrainees, Gender: survey.Female, FirstQID: 2, LastQID: 2},
	{Indicator: IndCompleters, Gender: survey.Male, FirstQID: 3, LastQID: 3},
	{Indicator: IndCompleters, Gender: survey.Female, FirstQID: 4, LastQID: 4},
	{Indicator: IndPlacements, Gender: survey.Male, FirstQID: 5, LastQID: 5},
	{Indicator: IndPlacements, Gender: survey.Female, FirstQID: 6, LastQID: 6},
}

type (
	// Summary is the headline block of the TVET dashboard.
	Summary struct {
		Institutions  int               `json:"institutions"`
		Trainees      stats.GenderCount `json:"trainees"`
		Completers    stats.GenderCount `json:"completers"`
		Placements    stats.GenderCount `json:"placements"`
		PlacementRate string            `json:"placementRate"`
	}

	// TrendPoint is one period of the TVET trend series.
	TrendPoint struct {
		Period        string `json:"period"`
		Trainees      int    `json:"trainees"`
		Completers    int    `json:"completers"`
		PlacementRate string `json:"placementRate"`
	}

	// DistrictRollup is one district's trainee counts in the hierarchy view.
	DistrictRollup struct {
		DistrictID int               `json:"districtId"`
		District   string            `json:"district"`
		Schools    int               `json:"schools"`
		Trainees   stats.GenderCount `json:"trainees"`
	}

	// RegionRollup groups district rollups under their region.
	RegionRollup struct {
		RegionID  int               `json:"regionId"`
		Region    string            `json:"region"`
		Trainees  stats.GenderCount `json:"trainees"`
		Districts []DistrictRollup  `json:"districts"`
	}

	// Report is the full JSON payload of /api/tvet-dashboard.
	Report struct {
		Period           string       `json:"period"`
		Level            string       `json:"level"`
		Summary          Summary      `json:"summary"`
		Trends           []TrendPoint `json:"trends"`
		AvailablePeriods []string     `json:"availablePeriods"`
		AvailableLevels  []string     `json:"availableLevels"`
	}
)

// genderSums folds a male/female indicator pair out of raw gendered sums.
type genderSums map[string]map[survey.Gender]int

func (gs genderSums) count(indicator string) stats.GenderCount {
	return stats.NewGenderCount(gs[indicator][survey.Male], gs[indicator][survey.Female])
}

func summarize(sums genderSums, institutions int) Summary {
	s := Summary{
		Institutions: institutions,
		Trainees:     sums.count(IndTrainees),
		Completers:   sums.count(IndCompleters),
		Placements:   sums.count(IndPlacements),
	}
	s.PlacementRate = stats.FormatPercent(s.Placements.Total, s.Completers.Total)
	return s
}
