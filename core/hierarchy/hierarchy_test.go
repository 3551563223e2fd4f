package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "", want: LevelNational},
		{in: "national", want: LevelNational},
		{in: "Region", want: LevelRegion},
		{in: " school ", want: LevelSchool},
		{in: "ward", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseLevel(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseLevel(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{}.Validate())
	assert.NoError(t, Filter{Level: LevelNational}.Validate())
	assert.NoError(t, Filter{Level: LevelDistrict, EntityID: 3}.Validate())
	assert.Error(t, Filter{Level: LevelDistrict}.Validate())
	assert.Error(t, Filter{Level: LevelSchool, EntityID: -1}.Validate())
}

func TestChildLevel(t *testing.T) {
	assert.Equal(t, LevelRegion, ChildLevel(LevelNational))
	assert.Equal(t, LevelSchool, ChildLevel(LevelCircuit))
	assert.Equal(t, Level(""), ChildLevel(LevelSchool))
}
