package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/dashboard"
)

type activityRepository struct {
	db *DB
}

var _ dashboard.ActivityRepository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) dashboard.ActivityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) RecentSubmissions(ctx context.Context, limit int) ([]dashboard.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	acts := append([]dashboard.Activity(nil), repo.db.Activities...)
	sort.Slice(acts, func(i, j int) bool { return acts[i].SubmittedAt.After(acts[j].SubmittedAt) })
	if limit > 0 && len(acts) > limit {
		acts = acts[:limit]
	}
	return acts, nil
}
