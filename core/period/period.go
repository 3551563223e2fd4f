// Package period defines the (year, term, week) keys that stamp every fact
// row and the ordering used to resolve "latest" submissions.
package period

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Key identifies one reporting period. Week is 0 for termly-only facts.
type Key struct {
	Year int `json:"year" db:"year"`
	Term int `json:"term" db:"term"`
	Week int `json:"week,omitempty" db:"week_number"`
}

// Compare orders Keys lexicographically on (Year, Term, Week).
// It returns -1 if k is older than o, 0 if equal and 1 if more recent.
func (k Key) Compare(o Key) int {
	switch {
	case k.Year != o.Year:
		return sign(k.Year - o.Year)
	case k.Term != o.Term:
		return sign(k.Term - o.Term)
	default:
		return sign(k.Week - o.Week)
	}
}

func (k Key) After(o Key) bool { return k.Compare(o) > 0 }

// Label renders the termly form used by trend charts, eg. "2024-T2".
func (k Key) Label() string {
	return fmt.Sprintf("%d-T%d", k.Year, k.Term)
}

// YearLabel renders the yearly form, eg. "2024".
func (k Key) YearLabel() string {
	return strconv.Itoa(k.Year)
}

func (k Key) IsZero() bool { return k == Key{} }

// Parse reads a termly Key of the form "2024-T2".
func Parse(s string) (Key, error) {
	parts := strings.SplitN(s, "-T", 2)
	if len(parts) != 2 {
		return Key{}, errors.Errorf("invalid period %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Key{}, errors.Wrapf(err, "invalid period year %q", s)
	}
	term, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, errors.Wrapf(err, "invalid period term %q", s)
	}
	if term < 1 || term > 3 {
		return Key{}, errors.Errorf("invalid period term %q", s)
	}
	return Key{Year: year, Term: term}, nil
}

// ViewBy selects the grain of trend series.
type ViewBy string

const (
	ViewByTerms ViewBy = "terms"
	ViewByYears ViewBy = "years"
)

func ParseViewBy(s string) (ViewBy, error) {
	switch v := ViewBy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewByTerms, nil
	case ViewByTerms, ViewByYears:
		return v, nil
	default:
		return "", errors.Errorf("invalid viewBy %q", s)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
