// Package stats holds the indicator arithmetic shared by every dashboard:
// gender triples, safe rates and the fixed percentage formatting the UI
// depends on.
package stats

import (
	"math"
	"strconv"
	"strings"
)

// GenderCount is a gender-split indicator. Total is always derived as
// Male + Female in application code, never read from SQL.
type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Total  int `json:"total"`
}

func NewGenderCount(male, female int) GenderCount {
	return GenderCount{Male: male, Female: female, Total: male + female}
}

func (g GenderCount) Add(o GenderCount) GenderCount {
	return NewGenderCount(g.Male+o.Male, g.Female+o.Female)
}

// GenderGap describes the disparity of a gender-split indicator. Percentage
// is relative to the male count and guarded to 0 when male is 0.
type GenderGap struct {
	Gap           int     `json:"gap"`
	GapPercentage float64 `json:"gapPercentage"`
}

func NewGenderGap(male, female int) GenderGap {
	gap := male - female
	if gap < 0 {
		gap = -gap
	}
	return GenderGap{Gap: gap, GapPercentage: Percent(gap, male)}
}

// ParseCount converts a SQL aggregate rendered as a string into an int.
// NULL (empty) and malformed sums count as 0; decimal sums are truncated.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Rate returns num/den, or 0 when den is 0. Never NaN.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percent returns num/den*100 rounded to one decimal, 0 when den is 0.
func Percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

// FormatPercent renders num/den*100 with exactly one decimal place, eg.
// "33.3". A zero denominator yields "0.0". The fixed formatting is part of
// the API contract.
func FormatPercent(num, den int) string {
	return FormatRate(Rate(float64(num)*100, float64(den)))
}

// FormatRate renders a precomputed percentage with one decimal place.
func FormatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Reverse flips a slice in place and returns it. Trend queries run newest
// first; charts want oldest first.
func Reverse[T any](s []T) []T {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
