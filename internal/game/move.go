package game

import (
	"go.uber.org/zap"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/rules"
)

// MakeMove places the current player's stone at (row, col). It returns false
// when the move is rejected; a forbidden Black move in professional mode also
// returns false but ends the game with White as winner.
func (e *Engine) MakeMove(row, col int) bool {
	return e.apply(func() bool {
		return e.makeMove(board.Pos(row, col))
	})
}

func (e *Engine) makeMove(p board.Position) bool {
	if reason, rejected := e.rejectMove(p); rejected {
		e.logger.Debug("move rejected",
			zap.Int("row", p.Row),
			zap.Int("col", p.Col),
			zap.String("reason", reason),
		)
		return false
	}

	professional := e.mode == rules.ModeProfessional
	if professional && e.opening.Phase() == rules.PhaseFiveOffer {
		return e.collectOffer(p)
	}

	mover := e.current
	if professional && mover == board.Black {
		if violation := rules.Classify(&e.board, p); violation != rules.ViolationNone {
			evt := events.NewEventAt(events.EventForbiddenMove, mover, p)
			evt.Data = violation.String()
			e.emit(evt)
			e.logger.Warn("forbidden move played",
				zap.Int("row", p.Row),
				zap.Int("col", p.Col),
				zap.String("violation", violation.String()),
			)
			e.finish(board.White, "forbidden "+violation.String())
			return false
		}
	}

	color := rules.StoneColor(e.mode, len(e.history), mover)
	e.commitStone(p, color, mover)
	if gained := e.mana.OnMove(mover, len(e.history)); gained != board.Empty {
		e.emit(events.NewEventWithAmount(events.EventManaGained, gained, 1))
	}
	e.logger.Debug("stone placed",
		zap.String("player", mover.String()),
		zap.String("color", color.String()),
		zap.Int("row", p.Row),
		zap.Int("col", p.Col),
		zap.Int("moves", len(e.history)),
	)

	if e.resolveWin(p, color) {
		return true
	}

	if board.IsFull(&e.board) {
		e.finish(board.Empty, "draw")
		return true
	}

	if professional {
		if tr, ok := e.opening.Advance(len(e.history)); ok {
			e.logger.Debug("opening advanced",
				zap.String("phase", tr.Phase.String()),
				zap.String("to_move", tr.ToMove.String()),
			)
			e.setCurrent(tr.ToMove)
			e.updateForbidden()
			e.emitPhase()
			return true
		}
	}

	e.advanceTurn(mover)
	e.updateForbidden()
	return true
}

// rejectMove runs the placement preconditions in order.
func (e *Engine) rejectMove(p board.Position) (string, bool) {
	switch {
	case !p.InBounds():
		return "out of bounds", true
	case e.gameOver:
		return "game over", true
	case !e.board.IsEmpty(p):
		return "occupied", true
	case e.reverse.Locks(e.current):
		return "locked by reverse", true
	case e.selection.IsSelecting:
		return "skill selection pending", true
	case e.selection.CounterWindowOpen():
		return "counter window open", true
	case e.mode == rules.ModeProfessional && !e.opening.Phase().AllowsPlacement():
		return "waiting on " + e.opening.Phase().String(), true
	}
	return "", false
}

// collectOffer records a fifth-move candidate. Black's offers are screened
// for forbidden shapes and a forbidden offer is simply refused.
func (e *Engine) collectOffer(p board.Position) bool {
	proposer := e.opening.Proposer()
	if proposer == board.Black && rules.IsForbidden(&e.board, p) {
		return false
	}
	accepted, complete := e.opening.Offer(p)
	if !accepted {
		return false
	}

	evt := events.NewEventAt(events.EventFiveOffered, proposer, p)
	evt.Amount = len(e.opening.Offers())
	e.emit(evt)

	if complete {
		e.setCurrent(e.opening.Chooser())
		e.updateForbidden()
		e.emitPhase()
	}
	return true
}

// resolveWin applies the win check for the stone just placed, including the
// optional extra turn. It returns true when the move's handling is finished.
//
// During an open extra turn the responder's own five wins first. Otherwise a
// five of the potential winner still on the board is confirmed, and failing
// both the window closes and play continues.
func (e *Engine) resolveWin(p board.Position, color board.Cell) bool {
	won := board.CheckWin(&e.board, p)

	if e.extraTurnEnabled && e.extraTurn {
		pending := e.potentialWinner
		e.extraTurn = false
		e.potentialWinner = board.Empty
		switch {
		case won:
			e.finish(color, "five during extra turn")
			return true
		case board.WinStillValid(&e.board, pending):
			e.finish(pending, "five confirmed")
			return true
		}
		e.logger.Debug("extra turn broke the line", zap.String("player", color.String()))
		return false
	}

	if !won {
		return false
	}
	// A full board leaves the responder nothing to play.
	if !e.extraTurnEnabled || board.IsFull(&e.board) {
		e.finish(color, "five")
		return true
	}

	e.extraTurn = true
	e.potentialWinner = color
	responder := board.Opponent(color)
	// The extra turn bypasses the turn rules, so a pending Still Water stays
	// queued. The mover's fly-sand ban still counts the turn.
	e.counters.Tick(counters.FlySandBan, color)
	e.setCurrent(responder)
	e.updateForbidden()
	e.emit(events.NewEvent(events.EventExtraTurnOpened, responder))
	e.logger.Info("extra turn opened",
		zap.String("potential_winner", color.String()),
		zap.String("responder", responder.String()),
	)
	return true
}
