package game

import (
	"go.uber.org/zap"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

// turnRule decides who moves after mover. The first rule that reports
// handled wins; later rules are not consulted.
type turnRule struct {
	name  string
	apply func(e *Engine, mover board.Cell) (next board.Cell, handled bool)
}

var turnRules = []turnRule{
	{name: "reverse", apply: (*Engine).reverseTurn},
	{name: "diversion", apply: (*Engine).diversionTurn},
	{name: "toggle", apply: (*Engine).toggleTurn},
}

func (e *Engine) advanceTurn(mover board.Cell) {
	for _, rule := range turnRules {
		next, handled := rule.apply(e, mover)
		if !handled {
			continue
		}
		if next != mover {
			e.logger.Debug("turn passed",
				zap.String("rule", rule.name),
				zap.String("from", mover.String()),
				zap.String("to", next.String()),
			)
		}
		e.setCurrent(next)
		return
	}
}

// reverseTurn spends one of the caster's consecutive moves granted by
// Reverse. After the last one the effect ends and the turn passes.
func (e *Engine) reverseTurn(mover board.Cell) (board.Cell, bool) {
	if !e.counters.Tick(counters.ReverseMoves, mover) {
		return board.Empty, false
	}
	if e.counters.Has(counters.ReverseMoves, mover) {
		return mover, true
	}
	e.reverse = skills.ReverseEffect{}
	return e.passWithSkip(mover), true
}

// diversionTurn keeps the move with the Diversion caster while turns remain.
func (e *Engine) diversionTurn(mover board.Cell) (board.Cell, bool) {
	if !e.counters.Tick(counters.Diversion, mover) {
		return board.Empty, false
	}
	return mover, true
}

// toggleTurn is the ordinary alternation. It also counts down the mover's
// fly-sand ban.
func (e *Engine) toggleTurn(mover board.Cell) (board.Cell, bool) {
	next := e.passWithSkip(mover)
	if e.counters.Tick(counters.FlySandBan, mover) {
		e.logger.Debug("fly-sand ban ticked",
			zap.String("player", mover.String()),
			zap.Int("left", e.counters.Get(counters.FlySandBan, mover)),
		)
	}
	return next, true
}

// passWithSkip hands the turn to the opponent unless Still Water holds them,
// in which case the marker is consumed and mover plays again.
func (e *Engine) passWithSkip(mover board.Cell) board.Cell {
	next := board.Opponent(mover)
	if e.skipNext == next {
		e.skipNext = board.Empty
		evt := events.NewEvent(events.EventTurnChanged, next)
		evt.Data = "skipped"
		e.emit(evt)
		return mover
	}
	return next
}
