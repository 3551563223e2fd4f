package database

import (
	"context"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/rtp"
	"github.com/trezcool/shule/core/survey"
)

const (
	rtpItineraryTable        = "rtp_itineraries"
	rtpSchoolResponseTable   = "rtp_school_responses"
	rtpDistrictResponseTable = "rtp_district_responses"
	rtpSchoolQuestionTable   = "rtp_school_questions"
	rtpDistrictQuestionTable = "rtp_district_questions"
)

type rtpRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ rtp.Repository = (*rtpRepository)(nil)

func NewRTPRepository(db *sqlx.DB) *rtpRepository {
	return &rtpRepository{q: db, db: db}
}

func (repo *rtpRepository) Snapshot(ctx context.Context, fn func(rtp.Repository) error) error {
	return snapshot(ctx, repo.db, func(q queryer) error {
		return fn(&rtpRepository{q: q, db: repo.db})
	})
}

func (repo *rtpRepository) Itineraries(ctx context.Context) ([]rtp.Itinerary, error) {
	query, args, err := sq.Select("id", "title", "year", "term").
		From(rtpItineraryTable).
		OrderBy("year DESC", "term DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building itineraries query")
	}

	its := []rtp.Itinerary{}
	if err = sqlx.SelectContext(ctx, repo.q, &its, query, args...); err != nil {
		return nil, errors.Wrap(err, "fetching itineraries")
	}
	return its, nil
}

// sourceTables resolves the response and question tables of one source.
func sourceTables(src rtp.Source) (responses, questions string, err error) {
	switch src {
	case rtp.SourceSchool:
		return rtpSchoolResponseTable, rtpSchoolQuestionTable, nil
	case rtp.SourceDistrict:
		return rtpDistrictResponseTable, rtpDistrictQuestionTable, nil
	default:
		return "", "", errors.Errorf("no tables for source %q", src)
	}
}

func (repo *rtpRepository) QuestionSums(ctx context.Context, src rtp.Source, q rtp.Query) (map[int]int, error) {
	rows, metas, err := repo.responses(ctx, src, q, 0)
	if err != nil {
		return nil, err
	}

	sums := map[int]int{}
	for _, row := range rows {
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
	_, questionTable, err := sourceTables(src)
	if err != nil {
		return survey.Meta{}, err
	}
	metas, err := questionMetas(ctx, repo.q, questionTable)
	if err != nil {
		return survey.Meta{}, err
	}
	meta, ok := metas[questionID]
	if !ok {
		return survey.Meta{}, rtp.ErrUnknownQuestion
	}
	return meta, nil
}

func (repo *rtpRepository) AnswerDistribution(ctx context.Context, src rtp.Source, q rtp.Query) (map[string]int, error) {
	rows, metas, err := repo.responses(ctx, src, q, q.QuestionID)
	if err != nil {
		return nil, err
	}

	dist := map[string]int{}
	for _, row := range rows {
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

// responses fetches one source's pivot rows for the itinerary, with hierarchy,
// school type and submission date bounds applied. questionID 0 means all.
func (repo *rtpRepository) responses(ctx context.Context, src rtp.Source, q rtp.Query, questionID int) ([]survey.Row, map[int]survey.Meta, error) {
	responseTable, questionTable, err := sourceTables(src)
	if err != nil {
		return nil, nil, err
	}

	cols := []string{
		"t.question_id",
		"COALESCE(t.numeric_response, '') AS numeric_response",
		"COALESCE(t.text_response, '') AS text_response",
		"COALESCE(t.single_choice_response, '') AS single_choice_response",
		"COALESCE(t.multiple_choice_response, '') AS multiple_choice_response",
	}
	if src == rtp.SourceSchool {
		cols = append(cols, "t.school_id")
	} else {
		cols = append(cols, "0 AS school_id")
	}

	b := sq.Select(cols...).
		From(responseTable + " t").
		Where(sq.Eq{"t.itinerary_id": q.ItineraryID})

	if src == rtp.SourceSchool {
		b = scopeSchools(b, q.Scope)
	} else {
		b = scopeDistricts(b, q.Scope)
	}
	if questionID > 0 {
		b = b.Where(sq.Eq{"t.question_id": questionID})
	}
	if !q.From.IsZero() {
		b = b.Where(sq.GtOrEq{"t.submitted_at": q.From})
	}
	if !q.To.IsZero() {
		b = b.Where(sq.LtOrEq{"t.submitted_at": q.To})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "building %s responses query", src)
	}

	rows := []survey.Row{}
	if err = sqlx.SelectContext(ctx, repo.q, &rows, query, args...); err != nil {
		return nil, nil, errors.Wrapf(err, "fetching %s responses", src)
	}

	metas, err := questionMetas(ctx, repo.q, questionTable)
	if err != nil {
		return nil, nil, err
	}
	return rows, metas, nil
}

// scopeDistricts applies the hierarchy filter to district-level responses.
// Only region and district filters are meaningful at this grain.
func scopeDistricts(b sq.SelectBuilder, f hierarchy.Filter) sq.SelectBuilder {
	b = b.Join("districts d ON d.id = t.district_id")
	switch f.Level {
	case hierarchy.LevelDistrict:
		b = b.Where(sq.Eq{"d.id": f.EntityID})
	case hierarchy.LevelRegion:
		b = b.Where(sq.Eq{"d.region_id": f.EntityID})
	}
	return b
}
