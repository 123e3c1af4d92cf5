package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

func TestRequirementFor(t *testing.T) {
	r, ok := RequirementFor(skills.FlySand)
	require.True(t, ok)
	assert.Equal(t, TargetTypeStone, r.Type)

	r, ok = RequirementFor(skills.Cleaner)
	require.True(t, ok)
	assert.Equal(t, TargetTypeRow, r.Type)

	_, ok = RequirementFor(skills.StillWater)
	assert.False(t, ok)
}

func TestValidateTarget(t *testing.T) {
	var b board.Board
	b.Set(board.Pos(3, 3), board.White)
	stone := TargetRequirement{Type: TargetTypeStone}
	row := TargetRequirement{Type: TargetTypeRow}

	tests := []struct {
		name    string
		p       board.Position
		req     TargetRequirement
		wantErr bool
	}{
		{"stone present", board.Pos(3, 3), stone, false},
		{"empty cell", board.Pos(3, 4), stone, true},
		{"stone off board", board.Pos(15, 3), stone, true},
		{"row ignores column", board.Pos(0, 99), row, false},
		{"row off board", board.Pos(-1, 0), row, true},
		{"unknown type", board.Pos(0, 0), TargetRequirement{Type: "CARD"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(&b, tt.p, tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
