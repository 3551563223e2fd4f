package dashboard

import (
	"time"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
)

type (
	// Activity is one recent submission across any fact table.
	Activity struct {
		Source      string    `json:"source" db:"source"`
		SchoolID    int       `json:"schoolId" db:"school_id"`
		School      string    `json:"school" db:"school_name"`
		Period      string    `json:"period"`
		SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
	}

	// Stats is the JSON payload of /api/dashboard/stats.
	Stats struct {
		Period         string                 `json:"period"`
		Counts         hierarchy.Counts       `json:"counts"`
		Enrollment     enrollment.Summary     `json:"enrollment"`
		Attendance     attendance.Summary     `json:"attendance"`
		Trends         []enrollment.TrendPoint `json:"trends"`
		RecentActivity []Activity             `json:"recentActivity"`
	}

	// UserStats is the JSON payload of /api/dashboard/user-stats: the same
	// aggregates scoped to the caller's place in the hierarchy.
	UserStats struct {
		UserID     int                     `json:"userId"`
		Role       string                  `json:"role"`
		Level      string                  `json:"level"`
		EntityID   int                     `json:"entityId,omitempty"`
		Period     string                  `json:"period"`
		Enrollment enrollment.Summary      `json:"enrollment"`
		Attendance attendance.Summary      `json:"attendance"`
		Trends     []enrollment.TrendPoint `json:"trends"`
	}
)
