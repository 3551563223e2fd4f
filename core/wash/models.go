package wash

import (
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

type (
	// FactRow is one WASH survey, resolved to the latest submission per
	// school for the requested period.
	FactRow struct {
		SchoolID            int    `json:"schoolId" db:"school_id"`
		SchoolName          string `json:"schoolName" db:"school_name"`
		Year                int    `json:"year" db:"year"`
		Term                int    `json:"term" db:"term"`
		Week                int    `json:"week" db:"week_number"`
		WaterFunctional     bool   `json:"waterFunctional" db:"water_functional"`
		ToiletsBoys         int    `json:"toiletsBoys" db:"toilets_boys"`
		ToiletsGirls        int    `json:"toiletsGirls" db:"toilets_girls"`
		HandwashingStations int    `json:"handwashingStations" db:"handwashing_stations"`
		SoapAvailable       bool   `json:"soapAvailable" db:"soap_available"`
	}

	// Summary is the headline block of the WASH dashboard.
	Summary struct {
		SchoolsSurveyed     int               `json:"schoolsSurveyed"`
		WaterAccessRate     string            `json:"waterAccessRate"`
		Toilets             stats.GenderCount `json:"toilets"`
		HandwashingStations int               `json:"handwashingStations"`
		SoapAvailableRate   string            `json:"soapAvailableRate"`
	}

	// TrendPoint is one period of the WASH trend series.
	TrendPoint struct {
		Period          string `json:"period"`
		SchoolsSurveyed int    `json:"schoolsSurveyed"`
		WaterAccessRate string `json:"waterAccessRate"`
	}

	// Report is the full JSON payload of /api/wash-dashboard.
	Report struct {
		Period           string       `json:"period"`
		Level            string       `json:"level"`
		Summary          Summary      `json:"summary"`
		Trends           []TrendPoint `json:"trends"`
		AvailablePeriods []string     `json:"availablePeriods"`
		AvailableLevels  []string     `json:"availableLevels"`
	}
)

func (r FactRow) Period() period.Key {
	return period.Key{Year: r.Year, Term: r.Term, Week: r.Week}
}

// Summarize folds resolved survey rows into the dashboard summary. Rates are
// over surveyed schools; zero surveyed yields "0.0".
func Summarize(rows []FactRow) Summary {
	var s Summary
	s.SchoolsSurveyed = len(rows)
	var water, soap int
	for _, r := range rows {
		if r.WaterFunctional {
			water++
		}
		if r.SoapAvailable {
			soap++
		}
		s.Toilets = s.Toilets.Add(stats.NewGenderCount(r.ToiletsBoys, r.ToiletsGirls))
		s.HandwashingStations += r.HandwashingStations
	}
	s.WaterAccessRate = stats.FormatPercent(water, s.SchoolsSurveyed)
	s.SoapAvailableRate = stats.FormatPercent(soap, s.SchoolsSurveyed)
	return s
}
