package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core/stats"
)

func TestSummarize(t *testing.T) {
	rows := []FactRow{
		{SchoolID: 1, NormalBoys: 10, SpecialBoys: 2, NormalGirls: 8, SpecialGirls: 1},
		{SchoolID: 2, NormalBoys: 20, SpecialBoys: 0, NormalGirls: 25, SpecialGirls: 2},
	}

	got := Summarize(rows)
	assert.Equal(t, Summary{
		Schools:      2,
		TotalBoys:    32,
		TotalGirls:   36,
		Total:        68,
		SpecialNeeds: stats.NewGenderCount(2, 3),
	}, got)
}

func TestSummarize_empty(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, Summary{SpecialNeeds: stats.NewGenderCount(0, 0)}, got)
}
