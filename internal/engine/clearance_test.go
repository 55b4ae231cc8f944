package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TianXue2002/H-chain/internal/model"
)

func TestPeriodicClearance_Rounding(t *testing.T) {
	tests := []struct {
		sep, width int
		literal    int
		ceil       int
	}{
		{sep: 0, width: 3, literal: 0, ceil: 0},
		{sep: 2, width: 3, literal: 3, ceil: 3},
		{sep: 5, width: 3, literal: 6, ceil: 6},
		{sep: 6, width: 3, literal: 9, ceil: 6},
		{sep: 7, width: 1, literal: 8, ceil: 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.literal, PeriodicClearance(tt.sep, tt.width, model.RoundingLiteral),
			"literal sep=%d width=%d", tt.sep, tt.width)
		assert.Equal(t, tt.ceil, PeriodicClearance(tt.sep, tt.width, model.RoundingCeil),
			"ceil sep=%d width=%d", tt.sep, tt.width)
	}
}

func TestClearance_OnlyInterTiles(t *testing.T) {
	s := model.DefaultSettings()
	s.Separation = 4

	intra := rectTile(3, 1)
	inter := rectTile(3, 1)
	inter.Region = model.RegionInter

	assert.Equal(t, 0, Clearance(s, intra))
	assert.Equal(t, 4, Clearance(s, inter))

	s.Policy = model.PolicyPeriodic
	assert.Equal(t, 0, Clearance(s, intra))
	assert.Equal(t, 6, Clearance(s, inter))

	s.Rounding = model.RoundingCeil
	assert.Equal(t, 6, Clearance(s, inter))
}
