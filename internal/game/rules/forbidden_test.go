package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

func blackStones(positions ...board.Position) *board.Board {
	var b board.Board
	for _, p := range positions {
		b.Set(p, board.Black)
	}
	return &b
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		board func() *board.Board
		probe board.Position
		want  Violation
	}{
		{
			name: "double live three",
			board: func() *board.Board {
				return blackStones(board.Pos(7, 5), board.Pos(7, 6), board.Pos(5, 7), board.Pos(6, 7))
			},
			probe: board.Pos(7, 7),
			want:  ViolationDoubleThree,
		},
		{
			name: "double four",
			board: func() *board.Board {
				return blackStones(
					board.Pos(7, 4), board.Pos(7, 5), board.Pos(7, 6),
					board.Pos(4, 7), board.Pos(5, 7), board.Pos(6, 7),
				)
			},
			probe: board.Pos(7, 7),
			want:  ViolationDoubleFour,
		},
		{
			name: "overline",
			board: func() *board.Board {
				return blackStones(board.Pos(7, 1), board.Pos(7, 2), board.Pos(7, 3), board.Pos(7, 5), board.Pos(7, 6))
			},
			probe: board.Pos(7, 4),
			want:  ViolationOverline,
		},
		{
			name: "single live three is legal",
			board: func() *board.Board {
				return blackStones(board.Pos(7, 5), board.Pos(7, 6))
			},
			probe: board.Pos(7, 7),
			want:  ViolationNone,
		},
		{
			name: "three blocked by white is not live",
			board: func() *board.Board {
				b := blackStones(board.Pos(7, 5), board.Pos(7, 6), board.Pos(5, 7), board.Pos(6, 7))
				b.Set(board.Pos(7, 4), board.White)
				return b
			},
			probe: board.Pos(7, 7),
			want:  ViolationNone,
		},
		{
			name: "occupied cell",
			board: func() *board.Board {
				return blackStones(board.Pos(7, 7))
			},
			probe: board.Pos(7, 7),
			want:  ViolationNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.board()
			assert.Equal(t, tt.want, Classify(b, tt.probe))
			assert.Equal(t, tt.want != ViolationNone, IsForbidden(b, tt.probe))
		})
	}
}

func TestIsForbidden_ProbeLeavesNoTrace(t *testing.T) {
	b := blackStones(board.Pos(7, 5), board.Pos(7, 6), board.Pos(5, 7), board.Pos(6, 7))
	b.Set(board.Pos(3, 3), board.White)
	before := *b

	assert.True(t, IsForbidden(b, board.Pos(7, 7)))
	assert.Equal(t, before, *b)
	assert.Equal(t, board.Empty, b.At(board.Pos(7, 7)))

	ForbiddenMoves(b)
	assert.Equal(t, before, *b)
}

func TestForbiddenMoves(t *testing.T) {
	b := blackStones(board.Pos(7, 5), board.Pos(7, 6), board.Pos(5, 7), board.Pos(6, 7))

	forbidden := ForbiddenMoves(b)
	assert.Contains(t, forbidden, board.Pos(7, 7))
	for _, p := range forbidden {
		assert.True(t, b.IsEmpty(p))
	}

	var empty board.Board
	assert.Empty(t, ForbiddenMoves(&empty))
}
