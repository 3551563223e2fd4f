// Package survey interprets the generic question/answer pivot tables used by
// the RTP, pregnancy-tracker and TVET-tracker domains. Each raw row carries
// one column per answer shape; the question's declared type decides which one
// holds the real value.
package survey

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/stats"
)

type QuestionType string

const (
	TypeNumeric        QuestionType = "numeric"
	TypeText           QuestionType = "text"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
)

// Meta describes one question of a tracker form.
type Meta struct {
	ID      int          `json:"id" db:"id"`
	Text    string       `json:"text" db:"text"`
	Type    QuestionType `json:"type" db:"question_type"`
	Options []string     `json:"options,omitempty"`
}

// Row is a raw pivot row as stored: every answer column present, only one
// meaningful.
type Row struct {
	QuestionID     int    `db:"question_id"`
	SchoolID       int    `db:"school_id"`
	Numeric        string `db:"numeric_response"`
	Text           string `db:"text_response"`
	SingleChoice   string `db:"single_choice_response"`
	MultipleChoice string `db:"multiple_choice_response"`
}

// Answer is the tagged union a Row resolves to.
type Answer struct {
	Type    QuestionType
	Number  int
	Text    string
	Choice  string
	Choices []string
}

// Resolve picks the answer column dictated by the question type. It is the
// single place the column precedence lives.
func Resolve(meta Meta, row Row) (Answer, error) {
	switch meta.Type {
	case TypeNumeric:
		return Answer{Type: meta.Type, Number: stats.ParseCount(row.Numeric)}, nil
	case TypeText:
		return Answer{Type: meta.Type, Text: row.Text}, nil
	case TypeSingleChoice:
		return Answer{Type: meta.Type, Choice: row.SingleChoice}, nil
	case TypeMultipleChoice:
		var choices []string
		for _, c := range strings.Split(row.MultipleChoice, ",") {
			if c = strings.TrimSpace(c); c != "" {
				choices = append(choices, c)
			}
		}
		return Answer{Type: meta.Type, Choices: choices}, nil
	default:
		return Answer{}, errors.Errorf("unknown question type %q (question %d)", meta.Type, meta.ID)
	}
}

// Count reduces an answer to the unit every aggregation works in: numeric
// answers contribute their value, affirmative choices contribute 1.
func (a Answer) Count() int {
	switch a.Type {
	case TypeNumeric:
		return a.Number
	case TypeSingleChoice:
		if isAffirmative(a.Choice) {
			return 1
		}
		return 0
	case TypeMultipleChoice:
		return len(a.Choices)
	default:
		return 0
	}
}

func isAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	}
	return false
}
