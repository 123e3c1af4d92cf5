package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobangfree/gobang-server-go/internal/game"
	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
	quiet   = 100 * time.Millisecond
)

func TestUnaffordableSkillChangesNothing(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	play(t, e, board.Pos(7, 7), board.Pos(8, 8), board.Pos(6, 6))
	require.Equal(t, 1, e.Snapshot().BlackMana.Current)
	before := e.Snapshot().Checksum()

	assert.False(t, e.UseSkill(board.Black, skills.FlySand))
	assert.Equal(t, before, e.Snapshot().Checksum())
}

func TestUnavailableAndUnknownSkillsRefused(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 15)
	before := e.Snapshot().Checksum()

	assert.False(t, e.UseSkill(board.Black, skills.EarthRotate))
	assert.False(t, e.UseSkill(board.Black, skills.ColdKing))
	assert.False(t, e.UseSkill(board.Black, "meteor"))
	assert.False(t, e.UseSkill(board.Empty, skills.StillWater))
	assert.Equal(t, before, e.Snapshot().Checksum())
}

func TestFlySandRemovesStone(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 2)
	play(t, e, board.Pos(7, 7), board.Pos(8, 8))

	require.True(t, e.UseSkill(board.Black, skills.FlySand))
	s := e.Snapshot()
	assert.True(t, s.SkillState.IsSelecting)
	assert.Equal(t, skills.FlySand, s.SkillState.SkillType)
	assert.Equal(t, 4, s.BlackMana.Current, "targeted skills pay on resolution")
	assert.False(t, e.MakeMove(0, 0), "placement waits on the selection")
	assert.False(t, e.UseSkill(board.Black, skills.Capture), "one pending skill at a time")

	assert.False(t, e.ExecuteSkillEffect(0, 0), "empty cell")
	require.True(t, e.ExecuteSkillEffect(8, 8))

	s = e.Snapshot()
	assert.False(t, s.SkillState.IsSelecting)
	assert.Equal(t, board.Empty, s.Board.At(board.Pos(8, 8)))
	assert.Equal(t, []board.Position{board.Pos(7, 7)}, s.MoveHistory)
	assert.Equal(t, 1, s.BlackMana.Current)
	assert.Equal(t, board.Black, s.CurrentPlayer, "casting does not pass the turn")
	require.NotNil(t, s.LastRemovedPiece)
	assert.Equal(t, skills.RemovedPiece{Position: board.Pos(8, 8), Color: board.White, RemovedBy: board.Black}, *s.LastRemovedPiece)
}

func TestCancelSkillSelection(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 2)

	var cancelled []string
	e.SubscribeTyped(events.EventSkillSelectionCancel, func(evt events.Event) {
		cancelled = append(cancelled, evt.Data)
	})

	require.True(t, e.UseSkill(board.Black, skills.FlySand))
	e.CancelSkillSelection()

	s := e.Snapshot()
	assert.False(t, s.SkillState.IsSelecting)
	assert.Equal(t, 4, s.BlackMana.Current)
	assert.Equal(t, []string{string(skills.FlySand)}, cancelled)
	assert.False(t, e.ExecuteSkillEffect(7, 7))
	assert.True(t, e.MakeMove(7, 7))
}

func TestHonestyReturnsRemovedStone(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 2)
	play(t, e, board.Pos(7, 7), board.Pos(8, 8))

	require.True(t, e.UseSkill(board.Black, skills.FlySand))
	require.True(t, e.ExecuteSkillEffect(8, 8))
	assert.False(t, e.UseSkill(board.Black, skills.Honesty), "the remover cannot return its own capture")

	play(t, e, board.Pos(0, 0))
	require.True(t, e.UseSkill(board.White, skills.Honesty))

	s := e.Snapshot()
	assert.Equal(t, board.White, s.Board.At(board.Pos(8, 8)))
	assert.Nil(t, s.LastRemovedPiece)
	assert.Equal(t, 2, s.WhiteMana.Current)
	assert.Len(t, s.MoveHistory, 3)
}

func TestHonestyWithoutRemovalRefused(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 1)
	assert.False(t, e.UseSkill(board.Black, skills.Honesty))
	assert.Equal(t, 2, e.Snapshot().BlackMana.Current)
}

func TestCleanerClearsThreeRows(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 4)
	play(t, e, board.Pos(7, 7), board.Pos(6, 0), board.Pos(8, 14), board.Pos(0, 0))

	require.True(t, e.UseSkill(board.Black, skills.Cleaner))
	assert.False(t, e.ExecuteSkillEffect(-1, 0), "row off the board")
	assert.True(t, e.Snapshot().SkillState.IsSelecting)

	require.True(t, e.ExecuteSkillEffect(7, 3))
	s := e.Snapshot()
	for _, p := range []board.Position{board.Pos(7, 7), board.Pos(6, 0), board.Pos(8, 14)} {
		assert.Equal(t, board.Empty, s.Board.At(p), "cell %s", p)
	}
	assert.Equal(t, board.White, s.Board.At(board.Pos(0, 0)))
	assert.Equal(t, []board.Position{board.Pos(0, 0)}, s.MoveHistory)
	assert.Equal(t, 2, s.BlackMana.Current)
}

func TestStillWaterSkipsOpponent(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 3)

	require.True(t, e.UseSkill(board.Black, skills.StillWater))
	assert.Equal(t, board.White, e.Snapshot().SkipNextTurn)

	play(t, e, board.Pos(7, 7))
	s := e.Snapshot()
	assert.Equal(t, board.Black, s.CurrentPlayer)
	assert.Equal(t, board.Empty, s.SkipNextTurn)

	play(t, e, board.Pos(7, 9))
	assert.Equal(t, board.White, e.Snapshot().CurrentPlayer)
}

func TestWaterDropErasesHeldOpponentsLastStone(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 6)
	play(t, e, board.Pos(7, 7), board.Pos(8, 8))

	assert.False(t, e.UseSkill(board.Black, skills.WaterDrop), "needs Still Water on the opponent")

	require.True(t, e.UseSkill(board.Black, skills.StillWater))
	require.True(t, e.UseSkill(board.Black, skills.WaterDrop))

	s := e.Snapshot()
	assert.Equal(t, board.Empty, s.Board.At(board.Pos(8, 8)))
	assert.Equal(t, []board.Position{board.Pos(7, 7)}, s.MoveHistory)
	assert.Equal(t, 0, s.BlackMana.Current)
	assert.Equal(t, board.White, s.SkipNextTurn)
}

func TestCaptureBansFlySand(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 2)

	require.True(t, e.UseSkill(board.Black, skills.Capture))
	s := e.Snapshot()
	assert.Equal(t, 2, s.FlySandBanned.White)
	assert.Equal(t, []counters.Counter{{Type: counters.FlySandBan, Owner: board.White, Count: 2}}, s.Counters)

	play(t, e, board.Pos(7, 7))
	assert.False(t, e.UseSkill(board.White, skills.FlySand))
	play(t, e, board.Pos(0, 0), board.Pos(7, 8))
	assert.Equal(t, 1, e.Snapshot().FlySandBanned.White)
	assert.False(t, e.UseSkill(board.White, skills.FlySand))

	play(t, e, board.Pos(0, 1), board.Pos(7, 9))
	assert.Zero(t, e.Snapshot().FlySandBanned.White)
	assert.True(t, e.UseSkill(board.White, skills.FlySand))
}

func TestDiversionGrantsThreeExtraTurns(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 5)

	require.True(t, e.UseSkill(board.Black, skills.Diversion))
	s := e.Snapshot()
	assert.Equal(t, board.Black, s.DiversionPlayer)
	assert.Equal(t, 3, s.DiversionTurnsLeft)

	for col := 0; col <= 4; col += 2 {
		play(t, e, board.Pos(0, col))
		assert.Equal(t, board.Black, e.Snapshot().CurrentPlayer, "col %d", col)
	}
	s = e.Snapshot()
	assert.Zero(t, s.DiversionTurnsLeft)
	assert.Equal(t, board.Empty, s.DiversionPlayer)

	play(t, e, board.Pos(0, 6))
	assert.Equal(t, board.White, e.Snapshot().CurrentPlayer)
}

func TestReverseLocksThenGrantsTwoMoves(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	cheat(e, 8)

	require.True(t, e.UseSkill(board.Black, skills.Reverse))
	s := e.Snapshot()
	assert.True(t, s.ReverseEffect.CasterLocked)
	assert.Equal(t, board.White, s.ReverseEffect.TargetPlayer)
	assert.Equal(t, 1, s.BlackMana.Current)
	assert.False(t, e.MakeMove(7, 7), "caster is locked")
	assert.False(t, e.UseSkill(board.Black, skills.Reverse), "one reverse at a time")

	mock.Add(game.DefaultReverseLockDelay)
	require.Eventually(t, func() bool {
		r := e.Snapshot().ReverseEffect
		return !r.CasterLocked && r.CasterCanMove == 2
	}, waitFor, tick)

	play(t, e, board.Pos(7, 7))
	s = e.Snapshot()
	assert.Equal(t, board.Black, s.CurrentPlayer)
	assert.Equal(t, 1, s.ReverseEffect.CasterCanMove)

	play(t, e, board.Pos(7, 9))
	s = e.Snapshot()
	assert.Equal(t, board.White, s.CurrentPlayer)
	assert.Equal(t, skills.ReverseEffect{}, s.ReverseEffect)
}

func TestSeeYouWinsImmediately(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 15)

	require.True(t, e.UseSkill(board.White, skills.SeeYou))
	s := e.Snapshot()
	assert.True(t, s.IsGameOver)
	assert.Equal(t, board.White, s.Winner)
	assert.Zero(t, s.WhiteMana.Current)
	assert.False(t, e.UseSkill(board.Black, skills.SeeYou), "game is over")
}

func TestMightyPowerResolvesWhenWindowExpires(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	cheat(e, 8)
	play(t, e, board.Pos(7, 7), board.Pos(0, 0))

	require.True(t, e.UseSkill(board.Black, skills.MightyPower))
	s := e.Snapshot()
	assert.True(t, s.CounterWindowOpen)
	assert.Equal(t, board.White, s.CounterWindowPlayer)
	assert.Equal(t, 16, s.BlackMana.Current, "paid when it resolves")
	assert.False(t, e.MakeMove(5, 5), "placement waits on the window")

	mock.Add(game.DefaultCounterWindow)
	require.Eventually(t, func() bool { return e.Snapshot().IsGameOver }, waitFor, tick)

	s = e.Snapshot()
	assert.Equal(t, board.Black, s.Winner)
	assert.Empty(t, s.Board.Stones())
	assert.Empty(t, s.MoveHistory)
	assert.False(t, s.CounterWindowOpen)
	assert.Equal(t, 1, s.BlackMana.Current)
}

func TestCloseCounterWindowResolvesAtOnce(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	cheat(e, 8)
	require.True(t, e.UseSkill(board.Black, skills.MightyPower))

	var closed int
	e.SubscribeTyped(events.EventCounterWindowClosed, func(events.Event) { closed++ })

	e.CloseCounterWindow()
	s := e.Snapshot()
	assert.True(t, s.IsGameOver)
	assert.Equal(t, board.Black, s.Winner)

	mock.Add(game.DefaultCounterWindow)
	assert.Never(t, func() bool { return closed > 1 }, quiet, tick)
	assert.Equal(t, 1, closed)
}

func TestComebackScattersStones(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	play(t, e, board.Pos(7, 7), board.Pos(7, 8), board.Pos(8, 8), board.Pos(0, 0))
	cheat(e, 8)

	require.True(t, e.UseSkill(board.Black, skills.MightyPower))
	assert.False(t, e.UseSkill(board.Black, skills.Comeback), "only the window target may answer")
	require.True(t, e.UseSkill(board.White, skills.Comeback))

	s := e.Snapshot()
	assert.False(t, s.IsGameOver)
	assert.False(t, s.CounterWindowOpen)
	assert.Len(t, s.MoveHistory, 4)
	assert.Equal(t, 2, countStones(s.Board, board.Black))
	assert.Equal(t, 2, countStones(s.Board, board.White))
	assert.Equal(t, 4, s.WhiteMana.Current)
	assert.Equal(t, 2, s.BlackMana.Current)

	// With slot order untouched the stones refill row 0 in their old row-major order.
	assert.Equal(t, []board.Position{
		board.Pos(0, 0), board.Pos(0, 1), board.Pos(0, 2), board.Pos(0, 3),
	}, s.MoveHistory)
	assert.Equal(t, board.White, s.Board.At(board.Pos(0, 0)))
	assert.Equal(t, board.Black, s.Board.At(board.Pos(0, 1)))
	assert.Equal(t, board.White, s.Board.At(board.Pos(0, 2)))
	assert.Equal(t, board.Black, s.Board.At(board.Pos(0, 3)))

	mock.Add(game.DefaultCounterWindow)
	assert.Never(t, func() bool { return e.Snapshot().IsGameOver }, quiet, tick)
	assert.True(t, e.MakeMove(5, 5))
}

func TestComebackWithoutWindowRefused(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cheat(e, 8)
	assert.False(t, e.UseSkill(board.White, skills.Comeback))
	assert.Equal(t, 16, e.Snapshot().WhiteMana.Current)
}

func TestRestartInvalidatesPendingTimers(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	cheat(e, 8)
	require.True(t, e.UseSkill(board.Black, skills.MightyPower))

	e.Restart()
	s := e.Snapshot()
	assert.False(t, s.CounterWindowOpen)

	mock.Add(10 * time.Second)
	assert.Never(t, func() bool { return e.Snapshot().IsGameOver }, quiet, tick)
	assert.True(t, e.MakeMove(7, 7))
}

func TestRestartDropsReverseUnlock(t *testing.T) {
	e, mock := newTestEngine(t, nil)
	cheat(e, 8)
	require.True(t, e.UseSkill(board.Black, skills.Reverse))

	e.Restart()
	mock.Add(game.DefaultReverseLockDelay)
	assert.Never(t, func() bool {
		return e.Snapshot().ReverseEffect.CasterCanMove > 0
	}, quiet, tick)
}
