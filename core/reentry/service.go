package reentry

import (
	"context"
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
	"github.com/trezcool/shule/core/stats"
)

var ErrNoData = errors.New("no re-entry data")

type (
	// TrendRow is a raw per-period indicator sum set, newest first as queried.
	TrendRow struct {
		Key  period.Key
		Sums map[string]int
	}

	// DistrictRow is a raw per-district indicator sum set.
	DistrictRow struct {
		DistrictID int
		District   string
		Sums       map[string]int
	}

	Repository interface {
		LatestPeriod(ctx context.Context) (period.Key, error)
		// IndicatorSums resolves the latest submission per school within the
		// period and folds answers into Questions' indicators.
		IndicatorSums(ctx context.Context, scope hierarchy.Filter, key period.Key) (map[string]int, error)
		// SumsByDistrict folds the latest submissions into per-district sums,
		// restricted to the districts within scope.
		SumsByDistrict(ctx context.Context, scope hierarchy.Filter, key period.Key) ([]DistrictRow, error)
		// SumsByPeriod returns indicator sums per period, most recent first.
		SumsByPeriod(ctx context.Context, scope hierarchy.Filter, limit int, viewBy period.ViewBy) ([]TrendRow, error)
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

// Report assembles the full re-entry dashboard for the given scope. Every
// section degrades independently to its zero shape; the response is always
// well-formed.
func (svc *Service) Report(ctx context.Context, scope hierarchy.Filter, key period.Key) (Report, error) {
	if err := scope.Validate(); err != nil {
		return Report{}, core.NewValidationError(err)
	}

	rep := Report{
		Level:            string(scope.Level),
		ByDistrict:       []DistrictBreakdown{},
		Trends:           []TrendPoint{},
		AvailablePeriods: []string{},
		AvailableLevels:  availableLevels(),
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

		sums, err := repo.IndicatorSums(ctx, scope, resolved)
		if err != nil {
			svc.log.Error("reentry: fetching indicator sums", err)
			sums = map[string]int{}
		}
		rep.Summary = summarize(sums)

		if scope.IsNational() || scope.Level == hierarchy.LevelRegion {
			districts, err := repo.SumsByDistrict(ctx, scope, resolved)
			if err != nil {
				svc.log.Error("reentry: fetching district breakdown", err)
				districts = nil
			}
			for _, d := range districts {
				rep.ByDistrict = append(rep.ByDistrict, DistrictBreakdown{
					DistrictID:  d.DistrictID,
					District:    d.District,
					Dropouts:    d.Sums[IndDropouts],
					Reentries:   d.Sums[IndReentries],
					ReentryRate: stats.FormatPercent(d.Sums[IndReentries], d.Sums[IndDropouts]),
				})
			}
		}

		trends, err := repo.SumsByPeriod(ctx, scope, svc.trendLimit, period.ViewByTerms)
		if err != nil {
			svc.log.Error("reentry: fetching trends", err)
			trends = nil
		}
		for _, row := range stats.Reverse(trends) {
			rep.Trends = append(rep.Trends, TrendPoint{
				Period:      row.Key.Label(),
				Dropouts:    row.Sums[IndDropouts],
				Reentries:   row.Sums[IndReentries],
				ReentryRate: stats.FormatPercent(row.Sums[IndReentries], row.Sums[IndDropouts]),
			})
		}

		periods, err := repo.AvailablePeriods(ctx)
		if err != nil {
			svc.log.Error("reentry: fetching available periods", err)
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

func availableLevels() []string {
	return []string{
		string(hierarchy.LevelNational),
		string(hierarchy.LevelRegion),
		string(hierarchy.LevelDistrict),
		string(hierarchy.LevelCircuit),
		string(hierarchy.LevelSchool),
	}
}
