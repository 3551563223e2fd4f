package rtp

import (
	"context"
	"errors"
	"fmt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

var (
	ErrNoData           = errors.New("no rtp data")
	ErrUnknownQuestion  = errors.New("unknown question")
	errMissingItinerary = errors.New("Missing required parameter: itineraryId")
)

type (
	Repository interface {
		// QuestionSums returns summed answer counts per question id for one
		// source table, scoped by the query's itinerary, hierarchy filter,
		// school type and date bounds.
		QuestionSums(ctx context.Context, src Source, q Query) (map[int]int, error)
		QuestionMeta(ctx context.Context, src Source, questionID int) (survey.Meta, error)
		// AnswerDistribution tallies resolved answer values for one question.
		AnswerDistribution(ctx context.Context, src Source, q Query) (map[string]int, error)
		Itineraries(ctx context.Context) ([]Itinerary, error)
		Snapshot(ctx context.Context, fn func(Repository) error) error
	}

	Service struct {
		repo     Repository
		log      core.Logger
		snapshot bool
	}
)

func NewService(repo Repository, log core.Logger, conf *core.Config) *Service {
	return &Service{repo: repo, log: log, snapshot: conf.Report.ConsistentSnapshot}
}

// MissingItineraryError reports whether err is the fail-fast validation error
// for a missing itineraryId.
func MissingItineraryError(err error) bool {
	var verr *core.ValidationError
	return errors.As(err, &verr) && verr.Err == errMissingItinerary
}

// Analytics assembles the multi-source indicator bundle for one itinerary.
// A missing itinerary id fails fast before any query; per-source failures
// degrade to zero shapes.
func (svc *Service) Analytics(ctx context.Context, q Query) (Analytics, error) {
	if q.ItineraryID <= 0 {
		return Analytics{}, core.NewValidationError(errMissingItinerary)
	}
	if err := q.Scope.Validate(); err != nil {
		return Analytics{}, core.NewValidationError(err)
	}
	if q.Source == "" {
		q.Source = SourceConsolidated
	}

	out := Analytics{
		ItineraryID: q.ItineraryID,
		Source:      q.Source,
		Indicators:  map[string]stats.GenderCount{},
		GenderGaps:  map[string]stats.GenderGap{},
	}

	build := func(repo Repository) error {
		if q.Source == SourceSchool || q.Source == SourceConsolidated {
			svc.foldSource(ctx, repo, SourceSchool, SchoolQuestions, q, &out)
		}
		if q.Source == SourceDistrict || q.Source == SourceConsolidated {
			svc.foldSource(ctx, repo, SourceDistrict, DistrictQuestions, q, &out)
		}

		for _, name := range gendered {
			if gc, ok := out.Indicators[name]; ok {
				out.GenderGaps[name] = stats.NewGenderGap(gc.Male, gc.Female)
			}
		}

		if q.ShowCalcs {
			out.Calculations = calculations(out)
		}

		if q.QuestionID > 0 {
			dist, err := svc.questionBreakdown(ctx, repo, q)
			if err != nil {
				svc.log.Error("rtp: fetching question breakdown", err)
			} else {
				out.Question = dist
			}
		}
		return nil
	}

	var err error
	if svc.snapshot {
		err = svc.repo.Snapshot(ctx, build)
	} else {
		err = build(svc.repo)
	}
	if err != nil {
		return Analytics{}, err
	}
	return out, nil
}

func (svc *Service) Itineraries(ctx context.Context) []Itinerary {
	its, err := svc.repo.Itineraries(ctx)
	if err != nil {
		svc.log.Error("rtp: fetching itineraries", err)
		its = nil
	}
	if its == nil {
		its = []Itinerary{}
	}
	return its
}

// foldSource merges one source table's question sums into the named
// indicators. A failed source degrades to all-zero indicators for its table.
func (svc *Service) foldSource(ctx context.Context, repo Repository, src Source, table survey.Table, q Query, out *Analytics) {
	sums, err := repo.QuestionSums(ctx, src, q)
	if err != nil {
		svc.log.Error(fmt.Sprintf("rtp: fetching %s question sums", src), err)
		sums = map[int]int{}
	}
	for _, m := range table {
		gc := out.Indicators[m.Indicator] // zero value when absent
		var sum int
		for qid := m.FirstQID; qid <= m.LastQID; qid++ {
			sum += sums[qid]
		}
		switch m.Gender {
		case survey.Male:
			gc = stats.NewGenderCount(gc.Male+sum, gc.Female)
		case survey.Female:
			gc = stats.NewGenderCount(gc.Male, gc.Female+sum)
		default:
			gc = stats.GenderCount{Male: gc.Male, Female: gc.Female, Total: gc.Total + sum}
		}
		out.Indicators[m.Indicator] = gc
	}
}

func (svc *Service) questionBreakdown(ctx context.Context, repo Repository, q Query) (*Distribution, error) {
	src := q.Source
	if src == SourceConsolidated {
		src = SourceSchool
	}
	meta, err := repo.QuestionMeta(ctx, src, q.QuestionID)
	if err != nil {
		return nil, err
	}
	answers, err := repo.AnswerDistribution(ctx, src, q)
	if err != nil {
		return nil, err
	}
	return &Distribution{
		QuestionID: meta.ID,
		Question:   meta.Text,
		Type:       meta.Type,
		Answers:    answers,
	}, nil
}

func calculations(a Analytics) []Calculation {
	calcs := make([]Calculation, 0, len(gendered))
	for _, name := range gendered {
		gc, ok := a.Indicators[name]
		if !ok {
			continue
		}
		gap := a.GenderGaps[name]
		calcs = append(calcs, Calculation{
			Indicator:  name,
			Male:       gc.Male,
			Female:     gc.Female,
			Total:      gc.Total,
			GapFormula: fmt.Sprintf("|%d - %d| = %d", gc.Male, gc.Female, gap.Gap),
			GapPercent: stats.FormatRate(gap.GapPercentage),
		})
	}
	return calcs
}
