package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/period"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// validation fails fast, so no repositories are needed here
func newBareService() *Service {
	return NewService(nil, nil, nil, nil, nopLogger{}, &core.Config{})
}

func TestService_UserStats_unknownRole(t *testing.T) {
	svc := newBareService()

	_, err := svc.UserStats(context.Background(), 1, "galactic", 0, period.Key{})
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "role", verr.Fields[0].Field)
	assert.Equal(t, "must be one of national, regional, district, school", verr.Fields[0].Error)
}

func TestService_UserStats_missingEntity(t *testing.T) {
	svc := newBareService()

	_, err := svc.UserStats(context.Background(), 1, "district", 0, period.Key{})
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "entityId", verr.Fields[0].Field)
	assert.Equal(t, "this field is required", verr.Fields[0].Error)
}
