package dummydb

import (
	"context"

	"github.com/trezcool/shule/core/hierarchy"
)

type hierarchyRepository struct {
	db *DB
}

var _ hierarchy.Repository = (*hierarchyRepository)(nil)

func NewHierarchyRepository(db *DB) hierarchy.Repository {
	return &hierarchyRepository{db: db}
}

func (repo *hierarchyRepository) Counts(ctx context.Context) (hierarchy.Counts, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return hierarchy.Counts{
		Regions:   len(repo.db.Regions),
		Districts: len(repo.db.Districts),
		Circuits:  len(repo.db.Circuits),
		Schools:   len(repo.db.Schools),
	}, nil
}

func (repo *hierarchyRepository) Nodes(ctx context.Context, level hierarchy.Level) ([]hierarchy.Node, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch level {
	case hierarchy.LevelRegion:
		return append([]hierarchy.Node(nil), repo.db.Regions...), nil
	case hierarchy.LevelDistrict:
		return append([]hierarchy.Node(nil), repo.db.Districts...), nil
	case hierarchy.LevelCircuit:
		return append([]hierarchy.Node(nil), repo.db.Circuits...), nil
	case hierarchy.LevelSchool:
		nodes := make([]hierarchy.Node, 0, len(repo.db.Schools))
		for _, s := range repo.db.Schools {
			nodes = append(nodes, hierarchy.Node{ID: s.ID, Name: s.Name, ParentID: s.CircuitID})
		}
		return nodes, nil
	}
	return nil, nil
}

func (repo *hierarchyRepository) Children(ctx context.Context, level hierarchy.Level, parentID int) ([]hierarchy.Node, error) {
	nodes, err := repo.Nodes(ctx, hierarchy.ChildLevel(level))
	if err != nil {
		return nil, err
	}
	var out []hierarchy.Node
	for _, n := range nodes {
		if n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out, nil
}
