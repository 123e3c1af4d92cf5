package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

func TestCounter_RemoveStopsAtZero(t *testing.T) {
	c := &Counter{Type: FlySandBan, Owner: board.White, Count: 3}
	c.Remove(-4)
	assert.Equal(t, 3, c.Count)

	c.Remove(5)
	assert.Equal(t, 0, c.Count)
}

func TestCounters_SetGetTick(t *testing.T) {
	cs := NewCounters()
	cs.Set(FlySandBan, board.White, FlySandBanTurns)

	assert.Equal(t, 2, cs.Get(FlySandBan, board.White))
	assert.False(t, cs.Has(FlySandBan, board.Black))

	assert.True(t, cs.Tick(FlySandBan, board.White))
	assert.True(t, cs.Has(FlySandBan, board.White))
	assert.True(t, cs.Tick(FlySandBan, board.White))
	assert.False(t, cs.Has(FlySandBan, board.White))
	assert.False(t, cs.Tick(FlySandBan, board.White), "expired counter is dropped")
	assert.Empty(t, cs.All())
}

func TestCounters_SetReplaces(t *testing.T) {
	cs := NewCounters()
	cs.Set(Diversion, board.Black, 3)
	cs.Set(Diversion, board.Black, 1)
	assert.Equal(t, 1, cs.Get(Diversion, board.Black))

	cs.Set(Diversion, board.Black, 0)
	assert.Zero(t, cs.Get(Diversion, board.Black))
	assert.Empty(t, cs.All())
}

func TestCounters_OwnerAndClear(t *testing.T) {
	cs := NewCounters()
	cs.Set(ReverseMoves, board.White, ReverseMoveGrants)
	cs.Set(FlySandBan, board.Black, 1)

	owner, ok := cs.Owner(ReverseMoves)
	assert.True(t, ok)
	assert.Equal(t, board.White, owner)

	cs.Clear(ReverseMoves)
	_, ok = cs.Owner(ReverseMoves)
	assert.False(t, ok)
	assert.True(t, cs.Has(FlySandBan, board.Black))

	cs.Reset()
	assert.Empty(t, cs.All())
}

func TestCounters_AllIsSorted(t *testing.T) {
	cs := NewCounters()
	cs.Set(ReverseMoves, board.Black, 2)
	cs.Set(FlySandBan, board.White, 2)
	cs.Set(FlySandBan, board.Black, 1)

	assert.Equal(t, []Counter{
		{Type: FlySandBan, Owner: board.Black, Count: 1},
		{Type: FlySandBan, Owner: board.White, Count: 2},
		{Type: ReverseMoves, Owner: board.Black, Count: 2},
	}, cs.All())
}
