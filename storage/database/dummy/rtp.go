package dummydb

import (
	"context"
	"strconv"
	"time"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/rtp"
	"github.com/trezcool/shule/core/survey"
)

type rtpRepository struct {
	db *DB
}

var _ rtp.Repository = (*rtpRepository)(nil)

func NewRTPRepository(db *DB) rtp.Repository {
	return &rtpRepository{db: db}
}

func (repo *rtpRepository) Snapshot(ctx context.Context, fn func(rtp.Repository) error) error {
	return fn(repo)
}

func (repo *rtpRepository) Itineraries(ctx context.Context) ([]rtp.Itinerary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]rtp.Itinerary(nil), repo.db.Itineraries...), nil
}

func inDateBounds(at, from, to time.Time) bool {
	if !from.IsZero() && at.Before(from) {
		return false
	}
	if !to.IsZero() && at.After(to) {
		return false
	}
	return true
}

// districtInScope applies the region/district filter to district responses.
func (repo *rtpRepository) districtInScope(districtID int, f hierarchy.Filter) bool {
	switch f.Level {
	case hierarchy.LevelDistrict:
		return districtID == f.EntityID
	case hierarchy.LevelRegion:
		for _, d := range repo.db.Districts {
			if d.ID == districtID {
				return d.ParentID == f.EntityID
			}
		}
		return false
	}
	return true
}

// rows selects one source's responses under the query's filters. questionID 0
// means all questions.
func (repo *rtpRepository) rows(src rtp.Source, q rtp.Query, questionID int) []survey.Row {
	var out []survey.Row
	switch src {
	case rtp.SourceSchool:
		for _, r := range repo.db.RTPSchoolRows {
			if r.ItineraryID != q.ItineraryID || !repo.db.inScope(r.SchoolID, q.Scope) {
				continue
			}
			if questionID > 0 && r.QuestionID != questionID {
				continue
			}
			if inDateBounds(r.SubmittedAt, q.From, q.To) {
				out = append(out, r.Row)
			}
		}
	case rtp.SourceDistrict:
		for _, r := range repo.db.RTPDistrictRows {
			if r.ItineraryID != q.ItineraryID || !repo.districtInScope(r.DistrictID, q.Scope) {
				continue
			}
			if questionID > 0 && r.QuestionID != questionID {
				continue
			}
			if inDateBounds(r.SubmittedAt, q.From, q.To) {
				out = append(out, r.Row)
			}
		}
	}
	return out
}

func (repo *rtpRepository) metas(src rtp.Source) map[int]survey.Meta {
	if src == rtp.SourceDistrict {
		return repo.db.RTPDistrictQuestions
	}
	return repo.db.RTPSchoolQuestions
}

func (repo *rtpRepository) QuestionSums(ctx context.Context, src rtp.Source, q rtp.Query) (map[int]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	metas := repo.metas(src)
	sums := map[int]int{}
	for _, row := range repo.rows(src, q, 0) {
		meta, ok := metas[row.QuestionID]
		if !ok {
			continue
		}
		ans, err := survey.Resolve(meta, row)
		if err != nil {
			continue
		}
		sums[row.QuestionID] += ans.Count()
	}
	return sums, nil
}

func (repo *rtpRepository) QuestionMeta(ctx context.Context, src rtp.Source, questionID int) (survey.Meta, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	meta, ok := repo.metas(src)[questionID]
	if !ok {
		return survey.Meta{}, rtp.ErrUnknownQuestion
	}
	return meta, nil
}

func (repo *rtpRepository) AnswerDistribution(ctx context.Context, src rtp.Source, q rtp.Query) (map[string]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	metas := repo.metas(src)
	dist := map[string]int{}
	for _, row := range repo.rows(src, q, q.QuestionID) {
		meta, ok := metas[row.QuestionID]
		if !ok {
			continue
		}
		ans, err := survey.Resolve(meta, row)
		if err != nil {
			continue
		}
		switch ans.Type {
		case survey.TypeNumeric:
			dist[strconv.Itoa(ans.Number)]++
		case survey.TypeText:
			if ans.Text != "" {
				dist[ans.Text]++
			}
		case survey.TypeSingleChoice:
			if ans.Choice != "" {
				dist[ans.Choice]++
			}
		case survey.TypeMultipleChoice:
			for _, c := range ans.Choices {
				dist[c]++
			}
		}
	}
	return dist, nil
}
