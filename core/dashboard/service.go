package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/period"
)

// roleLevels maps the caller-supplied role to the hierarchy level its stats
// are scoped to. Any other role is a validation error.
var roleLevels = map[string]hierarchy.Level{
	"national": hierarchy.LevelNational,
	"regional": hierarchy.LevelRegion,
	"district": hierarchy.LevelDistrict,
	"school":   hierarchy.LevelSchool,
}

type (
	// ActivityRepository feeds the recent-activity block.
	ActivityRepository interface {
		RecentSubmissions(ctx context.Context, limit int) ([]Activity, error)
	}

	Service struct {
		hierSvc    *hierarchy.Service
		enrolSvc   *enrollment.Service
		attSvc     *attendance.Service
		activities ActivityRepository
		log        core.Logger
		trendLimit int
	}
)

func NewService(
	hierSvc *hierarchy.Service,
	enrolSvc *enrollment.Service,
	attSvc *attendance.Service,
	activities ActivityRepository,
	log core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		hierSvc:    hierSvc,
		enrolSvc:   enrolSvc,
		attSvc:     attSvc,
		activities: activities,
		log:        log,
		trendLimit: conf.Report.TrendLimit,
	}
}

// Stats assembles the national overview dashboard for the given (term, year),
// defaulting to the latest period on record. Each block degrades to its zero
// shape independently.
func (svc *Service) Stats(ctx context.Context, key period.Key) Stats {
	scope := hierarchy.Filter{Level: hierarchy.LevelNational}

	out := Stats{
		Trends:         []enrollment.TrendPoint{},
		RecentActivity: []Activity{},
	}

	counts, err := svc.hierSvc.Counts(ctx)
	if err != nil {
		svc.log.Error("dashboard: fetching entity counts", err)
		counts = hierarchy.Counts{}
	}
	out.Counts = counts

	summary, resolved := svc.enrolSvc.Summary(ctx, scope, key)
	out.Enrollment = summary
	if !resolved.IsZero() {
		out.Period = resolved.Label()
	}

	out.Attendance = svc.attSvc.Summary(ctx, scope, resolved)
	out.Trends = append(out.Trends, svc.enrolSvc.Trends(ctx, scope, svc.trendLimit, period.ViewByTerms)...)

	acts, err := svc.activities.RecentSubmissions(ctx, 10)
	if err != nil {
		svc.log.Error("dashboard: fetching recent activity", err)
		acts = nil
	}
	out.RecentActivity = append(out.RecentActivity, acts...)

	return out
}

// UserStats assembles the role-scoped dashboard. An unknown role fails fast
// with a validation error before any query runs.
func (svc *Service) UserStats(ctx context.Context, userID int, role string, entityID int, key period.Key) (UserStats, error) {
	level, ok := roleLevels[core.CleanString(role, true)]
	if !ok {
		return UserStats{}, core.NewValidationError(
			errors.Errorf("unknown role %q", role),
			core.FieldError{Field: "role", Error: "must be one of national, regional, district, school"},
		)
	}

	scope := hierarchy.Filter{Level: level, EntityID: entityID}
	if err := scope.Validate(); err != nil {
		return UserStats{}, core.NewValidationError(err, core.FieldError{Field: "entityId", Error: "this field is required"})
	}

	out := UserStats{
		UserID:   userID,
		Role:     core.CleanString(role, true),
		Level:    string(level),
		EntityID: entityID,
		Trends:   []enrollment.TrendPoint{},
	}

	summary, resolved := svc.enrolSvc.Summary(ctx, scope, key)
	out.Enrollment = summary
	if !resolved.IsZero() {
		out.Period = resolved.Label()
	}
	out.Attendance = svc.attSvc.Summary(ctx, scope, resolved)
	out.Trends = append(out.Trends, svc.enrolSvc.Trends(ctx, scope, svc.trendLimit, period.ViewByTerms)...)

	return out, nil
}
