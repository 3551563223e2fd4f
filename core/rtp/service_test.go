package rtp

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

// fakeRepo serves canned sums per source.
type fakeRepo struct {
	schoolSums   map[int]int
	districtSums map[int]int
	schoolErr    error
	meta         survey.Meta
	answers      map[string]int
}

func (r *fakeRepo) QuestionSums(ctx context.Context, src Source, q Query) (map[int]int, error) {
	if src == SourceSchool {
		return r.schoolSums, r.schoolErr
	}
	return r.districtSums, nil
}

func (r *fakeRepo) QuestionMeta(ctx context.Context, src Source, questionID int) (survey.Meta, error) {
	if r.meta.ID != questionID {
		return survey.Meta{}, ErrUnknownQuestion
	}
	return r.meta, nil
}

func (r *fakeRepo) AnswerDistribution(ctx context.Context, src Source, q Query) (map[string]int, error) {
	return r.answers, nil
}

func (r *fakeRepo) Itineraries(ctx context.Context) ([]Itinerary, error) { return nil, nil }

func (r *fakeRepo) Snapshot(ctx context.Context, fn func(Repository) error) error { return fn(r) }

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestService(repo Repository) *Service {
	return NewService(repo, nopLogger{}, &core.Config{})
}

func TestService_Analytics(t *testing.T) {
	repo := &fakeRepo{
		schoolSums:   map[int]int{1: 2, 2: 3, 3: 5, 4: 4, 7: 1, 8: 2, 12: 0, 13: 5},
		districtSums: map[int]int{1: 3, 2: 2, 3: 4, 4: 1, 5: 2},
	}
	svc := newTestService(repo)

	got, err := svc.Analytics(context.Background(), Query{ItineraryID: 1})
	require.NoError(t, err)

	assert.Equal(t, SourceConsolidated, got.Source)
	assert.Equal(t, stats.NewGenderCount(2, 3), got.Indicators[IndTeacherChampions])
	assert.Equal(t, stats.NewGenderCount(5, 4), got.Indicators[IndTrainedTeachers])
	// ranged indicators sum across their question span
	assert.Equal(t, 3, got.Indicators[IndLearningEnvironments].Total)
	assert.Equal(t, 5, got.Indicators[IndSchoolsVisited].Total)
	assert.Equal(t, stats.NewGenderCount(0, 5), got.Indicators[IndEnrollment])

	assert.Equal(t, stats.GenderGap{Gap: 1, GapPercentage: 50}, got.GenderGaps[IndTeacherChampions])
	// zero male guards the gap percentage
	assert.Equal(t, stats.GenderGap{Gap: 5, GapPercentage: 0}, got.GenderGaps[IndEnrollment])
	assert.Nil(t, got.Calculations)
}

func TestService_Analytics_schoolSource(t *testing.T) {
	repo := &fakeRepo{
		schoolSums:   map[int]int{1: 2, 2: 3},
		districtSums: map[int]int{1: 3, 2: 2},
	}
	svc := newTestService(repo)

	got, err := svc.Analytics(context.Background(), Query{ItineraryID: 1, Source: SourceSchool})
	require.NoError(t, err)

	assert.Contains(t, got.Indicators, IndTeacherChampions)
	assert.NotContains(t, got.Indicators, IndDistrictTeamMembers)
}

func TestService_Analytics_degradedSource(t *testing.T) {
	repo := &fakeRepo{
		schoolErr:    errors.New("school table gone"),
		districtSums: map[int]int{1: 3, 2: 2},
	}
	svc := newTestService(repo)

	got, err := svc.Analytics(context.Background(), Query{ItineraryID: 1})
	require.NoError(t, err)

	// school indicators come back zeroed, district ones intact
	assert.Equal(t, stats.NewGenderCount(0, 0), got.Indicators[IndTeacherChampions])
	assert.Equal(t, stats.NewGenderCount(3, 2), got.Indicators[IndDistrictTeamMembers])
}

func TestService_Analytics_calculations(t *testing.T) {
	repo := &fakeRepo{schoolSums: map[int]int{1: 2, 2: 3}}
	svc := newTestService(repo)

	got, err := svc.Analytics(context.Background(), Query{ItineraryID: 1, Source: SourceSchool, ShowCalcs: true})
	require.NoError(t, err)

	require.NotEmpty(t, got.Calculations)
	c := got.Calculations[0]
	assert.Equal(t, IndTeacherChampions, c.Indicator)
	assert.Equal(t, "|2 - 3| = 1", c.GapFormula)
	assert.Equal(t, "50.0", c.GapPercent)
}

func TestService_Analytics_questionBreakdown(t *testing.T) {
	repo := &fakeRepo{
		schoolSums: map[int]int{},
		meta:       survey.Meta{ID: 5, Text: "Attendees at planning meeting", Type: survey.TypeNumeric},
		answers:    map[string]int{"10": 1, "12": 2},
	}
	svc := newTestService(repo)

	got, err := svc.Analytics(context.Background(), Query{ItineraryID: 1, Source: SourceSchool, QuestionID: 5})
	require.NoError(t, err)

	require.NotNil(t, got.Question)
	assert.Equal(t, 5, got.Question.QuestionID)
	assert.Equal(t, map[string]int{"10": 1, "12": 2}, got.Question.Answers)
}

func TestService_Analytics_missingItinerary(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.Analytics(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, MissingItineraryError(err))
	assert.Equal(t, "Missing required parameter: itineraryId", err.Error())
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{in: "", want: SourceConsolidated},
		{in: "school", want: SourceSchool},
		{in: "District", want: SourceDistrict},
		{in: "consolidated", want: SourceConsolidated},
		{in: "regional", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseSource(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseSource(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
