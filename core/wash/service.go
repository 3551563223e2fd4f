package wash

import (
	"context"
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

var ErrNoData = errors.New("no wash data")

type (
	Repository interface {
		LatestPeriod(ctx context.Context) (period.Key, error)
		// LatestRows returns the max-week survey per school within the period.
		LatestRows(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]FactRow, error)
		// RatesByPeriod returns per-period water-access tallies, newest first.
		RatesByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]TrendPoint, error)
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

// Report assembles the WASH dashboard; sections degrade independently.
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
			string(hierarchy.LevelCircuit),
			string(hierarchy.LevelSchool),
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

		rows, err := repo.LatestRows(ctx, scope, resolved)
		if err != nil {
			svc.log.Error("wash: fetching latest rows", err)
			rows = nil
		}
		rep.Summary = Summarize(rows)

		trends, err := repo.RatesByPeriod(ctx, scope, svc.trendLimit, period.ViewByTerms)
		if err != nil {
			svc.log.Error("wash: fetching trends", err)
			trends = nil
		}
		rep.Trends = append(rep.Trends, stats.Reverse(trends)...)

		periods, err := repo.AvailablePeriods(ctx)
		if err != nil {
			svc.log.Error("wash: fetching available periods", err)
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

func (svc *Service) resolvePeriod(ctx context.Context, repo Repository, key period.Key) (period.Key, error) {
	if !key.IsZero() {
		return key, nil
	}
	return repo.LatestPeriod(ctx)
}
