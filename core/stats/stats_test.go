package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenderCount(t *testing.T) {
	g := NewGenderCount(10, 12)
	assert.Equal(t, GenderCount{Male: 10, Female: 12, Total: 22}, g)

	g = g.Add(NewGenderCount(2, 0))
	assert.Equal(t, 24, g.Total)
}

func TestNewGenderGap(t *testing.T) {
	tests := []struct {
		name         string
		male, female int
		want         GenderGap
	}{
		{"male majority", 6, 4, GenderGap{Gap: 2, GapPercentage: 33.3}},
		{"female majority", 2, 3, GenderGap{Gap: 1, GapPercentage: 50}},
		{"zero male guards percentage", 0, 5, GenderGap{Gap: 5, GapPercentage: 0}},
		{"equal", 4, 4, GenderGap{Gap: 0, GapPercentage: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGenderGap(tt.male, tt.female))
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 7 ", 7},
		{"", 0},
		{"12.0000", 12},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCount(tt.in), "ParseCount(%q)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{1, 3, 33.3},
		{2, 4, 50},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.num, tt.den), "Percent(%d, %d)", tt.num, tt.den)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		num, den int
		want     string
	}{
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{0, 0, "0.0"},
		{5, 0, "0.0"},
		{3, 3, "100.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.num, tt.den), "FormatPercent(%d, %d)", tt.num, tt.den)
	}
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []int{3, 2, 1}, Reverse([]int{1, 2, 3}))
	assert.Equal(t, []string{"b", "a"}, Reverse([]string{"a", "b"}))
	assert.Empty(t, Reverse([]int{}))
}
