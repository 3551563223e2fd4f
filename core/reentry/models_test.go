package reentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_summarize(t *testing.T) {
	got := summarize(map[string]int{
		IndPregnantInSchool: 3,
		IndDropouts:         9,
		IndReentries:        3,
		IndSupported:        2,
	})
	assert.Equal(t, Summary{
		PregnantInSchool: 3,
		Dropouts:         9,
		Reentries:        3,
		SupportReceived:  2,
		ReentryRate:      "33.3",
	}, got)
}

func Test_summarize_noDropouts(t *testing.T) {
	got := summarize(map[string]int{IndReentries: 2})
	assert.Equal(t, "0.0", got.ReentryRate)
	assert.Zero(t, got.Dropouts)
}

func TestQuestions(t *testing.T) {
	m, ok := Questions.Find(5)
	assert.True(t, ok)
	assert.Equal(t, IndSupported, m.Indicator)

	_, ok = Questions.Find(6)
	assert.False(t, ok)
}
