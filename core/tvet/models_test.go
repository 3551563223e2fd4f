package tvet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

func Test_summarize(t *testing.T) {
	sums := genderSums{
		IndTrainees:   {survey.Male: 50, survey.Female: 50},
		IndCompleters: {survey.Male: 25, survey.Female: 21},
		IndPlacements: {survey.Male: 6, survey.Female: 6},
	}

	got := summarize(sums, 2)
	assert.Equal(t, Summary{
		Institutions:  2,
		Trainees:      stats.NewGenderCount(50, 50),
		Completers:    stats.NewGenderCount(25, 21),
		Placements:    stats.NewGenderCount(6, 6),
		PlacementRate: "26.1",
	}, got)
}

func Test_summarize_noCompleters(t *testing.T) {
	got := summarize(genderSums{}, 0)
	assert.Equal(t, "0.0", got.PlacementRate)
	assert.Zero(t, got.Trainees.Total)
}

func TestQuestions(t *testing.T) {
	m, ok := Questions.Find(2)
	assert.True(t, ok)
	assert.Equal(t, IndTrainees, m.Indicator)
	assert.Equal(t, survey.Female, m.Gender)
}
