package database

import (
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
)

func Test_badConn(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantShutdown bool
	}{
		{name: "bad driver connection", err: driver.ErrBadConn, wantShutdown: true},
		{name: "wrapped bad connection", err: errors.Wrap(driver.ErrBadConn, "beginning read-only tx"), wantShutdown: true},
		{name: "query error passes through", err: errors.New("syntax error"), wantShutdown: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := badConn(tt.err)
			assert.Error(t, err)
			assert.Equal(t, tt.wantShutdown, core.IsShutdown(err))
			if !tt.wantShutdown {
				assert.Equal(t, tt.err, err)
			}
		})
	}
}
