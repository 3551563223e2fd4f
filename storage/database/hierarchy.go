package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/hierarchy"
)

// levelTables maps each hierarchy level to its backing table and parent
// column. The hierarchy store is read-only from this layer's perspective.
var levelTables = map[hierarchy.Level]struct {
	table     string
	parentCol string
}{
	hierarchy.LevelRegion:   {table: "regions"},
	hierarchy.LevelDistrict: {table: "districts", parentCol: "region_id"},
	hierarchy.LevelCircuit:  {table: "circuits", parentCol: "district_id"},
	hierarchy.LevelSchool:   {table: "schools", parentCol: "circuit_id"},
}

type hierarchyRepository struct {
	q  queryer
	db *sqlx.DB
}

var _ hierarchy.Repository = (*hierarchyRepository)(nil)

func NewHierarchyRepository(db *sqlx.DB) *hierarchyRepository {
	return &hierarchyRepository{q: db, db: db}
}

func (repo *hierarchyRepository) Counts(ctx context.Context) (hierarchy.Counts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM regions) AS regions,
			(SELECT COUNT(*) FROM districts) AS districts,
			(SELECT COUNT(*) FROM circuits) AS circuits,
			(SELECT COUNT(*) FROM schools) AS schools`

	var counts hierarchy.Counts
	if err := sqlx.GetContext(ctx, repo.q, &counts, query); err != nil {
		return hierarchy.Counts{}, errors.Wrap(err, "counting hierarchy entities")
	}
	return counts, nil
}

func (repo *hierarchyRepository) Nodes(ctx context.Context, level hierarchy.Level) ([]hierarchy.Node, error) {
	meta, ok := levelTables[level]
	if !ok {
		return nil, nil
	}

	cols := []string{"id", "name"}
	if meta.parentCol != "" {
		cols = append(cols, meta.parentCol+" AS parent_id")
	}
	query, args, err := sq.Select(cols...).From(meta.table).OrderBy("name").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building nodes query")
	}

	nodes := []hierarchy.Node{}
	if err = sqlx.SelectContext(ctx, repo.q, &nodes, query, args...); err != nil {
		return nil, errors.Wrapf(err, "listing %s", meta.table)
	}
	return nodes, nil
}

func (repo *hierarchyRepository) Children(ctx context.Context, level hierarchy.Level, parentID int) ([]hierarchy.Node, error) {
	child := hierarchy.ChildLevel(level)
	meta, ok := levelTables[child]
	if !ok || meta.parentCol == "" {
		return nil, nil
	}

	query, args, err := sq.Select("id", "name", meta.parentCol+" AS parent_id").
		From(meta.table).
		Where(sq.Eq{meta.parentCol: parentID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building children query")
	}

	nodes := []hierarchy.Node{}
	if err = sqlx.SelectContext(ctx, repo.q, &nodes, query, args...); err != nil {
		return nil, errors.Wrapf(err, "listing children of %s %d", level, parentID)
	}
	return nodes, nil
}
