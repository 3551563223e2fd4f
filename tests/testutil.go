package testutil

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/survey"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

// NopLogger discards everything; degradation paths stay quiet in tests.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Enable(bool)                  {}
func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// NewConfig returns a config suitable for tests, env lookups skipped.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode: true,
		Env:      "TEST",
		Report:   core.ReportConfig{TrendLimit: 5},
	}
}

// NumericQuestions registers sequential numeric questions [1..n] in the
// given bank.
func NumericQuestions(bank map[int]survey.Meta, n int) {
	for id := 1; id <= n; id++ {
		bank[id] = survey.Meta{ID: id, Type: survey.TypeNumeric}
	}
}

// NumericRow builds one numeric pivot response.
func NumericRow(schoolID, questionID, year, term, week int, value string) dummydb.PivotRow {
	return dummydb.PivotRow{
		Row:  survey.Row{SchoolID: schoolID, QuestionID: questionID, Numeric: value},
		Year: year,
		Term: term,
		Week: week,
	}
}
