package wash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	rows := []FactRow{
		{SchoolID: 1, WaterFunctional: true, ToiletsBoys: 4, ToiletsGirls: 5, HandwashingStations: 3, SoapAvailable: true},
		{SchoolID: 2, WaterFunctional: false, ToiletsBoys: 2, ToiletsGirls: 2, HandwashingStations: 1},
		{SchoolID: 3, WaterFunctional: true, ToiletsBoys: 6, ToiletsGirls: 6, HandwashingStations: 4, SoapAvailable: true},
	}

	got := Summarize(rows)
	assert.Equal(t, 3, got.SchoolsSurveyed)
	assert.Equal(t, "66.7", got.WaterAccessRate)
	assert.Equal(t, "66.7", got.SoapAvailableRate)
	assert.Equal(t, 25, got.Toilets.Total)
	assert.Equal(t, 8, got.HandwashingStations)
}

func TestSummarize_empty(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, "0.0", got.WaterAccessRate)
	assert.Equal(t, "0.0", got.SoapAvailableRate)
	assert.Zero(t, got.SchoolsSurveyed)
}
