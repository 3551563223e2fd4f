package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/period"
)

type activityRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ dashboard.ActivityRepository = (*activityRepository)(nil)

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{q: db, db: db}
}

type activityRow struct {
	Source      string `db:"source"`
	SchoolID    int    `db:"school_id"`
	School      string `db:"school_name"`
	period.Key
	SubmittedAt time.Time `db:"submitted_at"`
}

// activitySources maps each fact table to its submission source label.
var activitySources = []struct{ table, label string }{
	{enrollmentTable, "enrollment"},
	{studentAttendanceTable, "attendance"},
	{washTable, "wash"},
}

func (repo *activityRepository) RecentSubmissions(ctx context.Context, limit int) ([]dashboard.Activity, error) {
	// squirrel has no UNION; the statement is static so built by hand.
	query := ""
	for i, src := range activitySources {
		if i > 0 {
			query += " UNION ALL "
		}
		query += fmt.Sprintf(
			"(SELECT '%s' AS source, t.school_id, s.name AS school_name, t.year, t.term, t.week_number, t.submitted_at "+
				"FROM %s t JOIN schools s ON s.id = t.school_id)",
			src.label, src.table,
		)
	}
	query += " ORDER BY submitted_at DESC LIMIT ?"

	rows := []activityRow{}
	if err := sqlx.SelectContext(ctx, repo.q, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "fetching recent submissions")
	}

	acts := make([]dashboard.Activity, 0, len(rows))
	for _, row := range rows {
		acts = append(acts, dashboard.Activity{
			Source:      row.Source,
			SchoolID:    row.SchoolID,
			School:      row.School,
			Period:      row.Key.Label(),
			SubmittedAt: row.SubmittedAt,
		})
	}
	return acts, nil
}
