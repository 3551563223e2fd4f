package tvet

import (
	"context"
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
	"github.com/trezcool/shule/core/survey"
)

var ErrNoData = errors.New("no tvet data")

type (
	// TrendRow is a raw per-period gendered sum set, newest first as queried.
	TrendRow struct {
		Key  period.Key
		Sums map[string]map[survey.Gender]int
	}

	Repository interface {
		LatestPeriod(ctx context.Context) (period.Key, error)
		// GenderSums resolves the latest submission per institution within
		// the period and folds answers into Questions' indicators, split by
		// the mapping's gender.
		GenderSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]map[survey.Gender]int, error)
		// Institutions counts distinct reporting institutions in the period.
		Institutions(ctx context.Context, scope hierarchy.Filter, key period.Key) (int, error)
		SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]TrendRow, error)
		// Rollup aggregates trainee counts region → district for the period.
		Rollup(ctx context.Context, key period.Key) ([]RegionRollup, error)
		AvailablePeriods(ctx context.Context) ([]period.Key, error)
		Snapshot(ctx context.Context, fn func(Repository) error) error
	}

	Service struct {
		repo       Repository
		log        core.Logger
		trendLimit int
		snapshot   bool
	}
)

func NewService(repo Repository, log core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		log:        log,
		trendLimit: conf.Report.TrendLimit,
		snapshot:   conf.Report.ConsistentSnapshot,
	}
}

// Report assembles the TVET dashboard; every section degrades independently.
func (svc *Service) Report(ctx context.Context, scope hierarchy.Filter, key period.Key) (Report, error) {
	if err := scope.Validate(); err != nil {
		return Report{}, core.NewValidationError(err)
	}

	rep := Report{
		Level:            string(scope.Level),
		Trends:           []TrendPoint{},
		AvailablePeriods: []string{},
		AvailableLevels: []string{
			string(hierarchy.LevelNational),
			string(hierarchy.LevelRegion),
			string(hierarchy.LevelDistrict),
		},
	}
	if scope.Level == "" {
		rep.Level = string(hierarchy.LevelNational)
	}

	build := func(repo Repository) error {
		resolved, err := svc.resolvePeriod(ctx, repo, key)
		if err != nil {
			return err
		}
		rep.Period = resolved.Label()

		sums, err := repo.GenderSums(ctx, scope, resolved)
		if err != nil {
			svc.log.Error("tvet: fetching gender sums", err)
			sums = map[string]map[survey.Gender]int{}
		}
		institutions, err := repo.Institutions(ctx, scope, resolved)
		if err != nil {
			svc.log.Error("tvet: counting institutions", err)
			institutions = 0
		}
		rep.Summary = summarize(sums, institutions)

		trends, err := repo.SumsByPeriod(ctx, scope, svc.trendLimit, period.ViewByTerms)
		if err != nil {
			svc.log.Error("tvet: fetching trends", err)
			trends = nil
		}
		for _, row := range stats.Reverse(trends) {
			gs := genderSums(row.Sums)
			trainees := gs.count(IndTrainees)
			completers := gs.count(IndCompleters)
			placements := gs.count(IndPlacements)
			rep.Trends = append(rep.Trends, TrendPoint{
				Period:        row.Key.Label(),
				Trainees:      trainees.Total,
				Completers:    completers.Total,
				PlacementRate: stats.FormatPercent(placements.Total, completers.Total),
			})
		}

		periods, err := repo.AvailablePeriods(ctx)
		if err != nil {
			svc.log.Error("tvet: fetching available periods", err)
			periods = nil
		}
		for _, p := range periods {
			rep.AvailablePeriods = append(rep.AvailablePeriods, p.Label())
		}
		return nil
	}

	var err error
	if svc.snapshot {
		err = svc.repo.Snapshot(ctx, build)
	} else {
		err = build(svc.repo)
	}
	if err != nil && !errors.Is(err, ErrNoData) {
		return Report{}, err
	}
	return rep, nil
}

// Hierarchy returns the region → district trainee rollup for the latest (or
// given) period.
func (svc *Service) Hierarchy(ctx context.Context, key period.Key) ([]RegionRollup, string, error) {
	resolved, err := svc.resolvePeriod(ctx, svc.repo, key)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return []RegionRollup{}, "", nil
		}
		return nil, "", err
	}
	rollup, err := svc.repo.Rollup(ctx, resolved)
	if err != nil {
		svc.log.Error("tvet: fetching hierarchy rollup", err)
		return []RegionRollup{}, resolved.Label(), nil
	}
	return rollup, resolved.Label(), nil
}

func (svc *Service) resolvePeriod(ctx context.Context, repo Repository, key period.Key) (period.Key, error) {
	if !key.IsZero() {
		return key, nil
	}
	return repo.LatestPeriod(ctx)
}
