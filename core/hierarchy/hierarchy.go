// Package hierarchy models the region → district → circuit → school tree and
// the single-active-level scope filter shared by every dashboard query.
package hierarchy

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Level is one rung of the entity hierarchy. Reports may be scoped to any
// single level at a time; selecting a higher level supersedes lower ones.
type Level string

const (
	LevelNational Level = "national"
	LevelRegion   Level = "region"
	LevelDistrict Level = "district"
	LevelCircuit  Level = "circuit"
	LevelSchool   Level = "school"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelNational, nil
	case LevelNational, LevelRegion, LevelDistrict, LevelCircuit, LevelSchool:
		return l, nil
	default:
		return "", errors.Errorf("unknown level %q", s)
	}
}

// Filter scopes a report to one hierarchy node, optionally narrowed by school
// type. The zero value means national scope.
type Filter struct {
	Level      Level
	EntityID   int
	SchoolType string
}

func (f Filter) Validate() error {
	if f.Level == "" || f.Level == LevelNational {
		return nil
	}
	if f.EntityID <= 0 {
		return errors.Errorf("level %q requires an entity id", f.Level)
	}
	return nil
}

// IsNational reports whether the filter leaves the query unscoped.
func (f Filter) IsNational() bool {
	return f.Level == "" || f.Level == LevelNational
}

type (
	// Node is one row of the read-only hierarchy store.
	Node struct {
		ID       int    `json:"id" db:"id"`
		Name     string `json:"name" db:"name"`
		ParentID int    `json:"parentId,omitempty" db:"parent_id"`
	}

	// Counts is the entity tally shown on the overview dashboard.
	Counts struct {
		Regions   int `json:"regions" db:"regions"`
		Districts int `json:"districts" db:"districts"`
		Circuits  int `json:"circuits" db:"circuits"`
		Schools   int `json:"schools" db:"schools"`
	}

	Repository interface {
		Counts(ctx context.Context) (Counts, error)
		// Nodes lists all nodes at a level; LevelNational yields nil.
		Nodes(ctx context.Context, level Level) ([]Node, error)
		// Children lists the nodes one level below the given node.
		Children(ctx context.Context, level Level, parentID int) ([]Node, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Counts(ctx context.Context) (Counts, error) {
	return svc.repo.Counts(ctx)
}

func (svc *Service) Nodes(ctx context.Context, level Level) ([]Node, error) {
	return svc.repo.Nodes(ctx, level)
}

func (svc *Service) Children(ctx context.Context, level Level, parentID int) ([]Node, error) {
	return svc.repo.Children(ctx, level, parentID)
}

// ChildLevel returns the level one rung below l, or "" for LevelSchool.
func ChildLevel(l Level) Level {
	switch l {
	case LevelNational:
		return LevelRegion
	case LevelRegion:
		return LevelDistrict
	case LevelDistrict:
		return LevelCircuit
	case LevelCircuit:
		return LevelSchool
	default:
		return ""
	}
}
