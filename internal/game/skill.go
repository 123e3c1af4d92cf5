package game

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
	"github.com/gobangfree/gobang-server-go/internal/game/targeting"
)

// UseSkill casts id for player. It returns false, with nothing spent or
// changed, when the game is over, another skill is pending, the player
// cannot afford it, or a skill-specific precondition fails. Targeted skills
// only arm a selection here; ExecuteSkillEffect resolves and pays for them.
func (e *Engine) UseSkill(player board.Cell, id skills.ID) bool {
	return e.apply(func() bool {
		ok := e.useSkill(player, id)
		if !ok {
			e.logger.Debug("skill refused",
				zap.String("player", player.String()),
				zap.String("skill", string(id)),
			)
		}
		return ok
	})
}

func (e *Engine) useSkill(player board.Cell, id skills.ID) bool {
	skill, ok := skills.Lookup(id)
	if !ok || !player.IsPlayer() || e.gameOver || skill.Shape == skills.ShapeUnavailable {
		return false
	}
	if id == skills.Comeback {
		return e.castComeback(player, skill)
	}
	if e.selection.Active() {
		return false
	}
	if !e.mana.Pool(player).CanSpend(skill.ManaCost) {
		return false
	}

	opponent := board.Opponent(player)
	switch id {
	case skills.FlySand:
		if e.counters.Has(counters.FlySandBan, player) {
			return false
		}
		return e.armSelection(player, skill)

	case skills.Cleaner:
		return e.armSelection(player, skill)

	case skills.StillWater:
		e.skipNext = opponent

	case skills.Capture:
		e.counters.Set(counters.FlySandBan, opponent, counters.FlySandBanTurns)

	case skills.Diversion:
		e.counters.Clear(counters.Diversion)
		e.counters.Set(counters.Diversion, player, counters.DiversionTurns)

	case skills.Honesty:
		if !e.castHonesty(player) {
			return false
		}

	case skills.WaterDrop:
		if !e.castWaterDrop(player) {
			return false
		}

	case skills.Reverse:
		if e.reverse.CasterPlayer.IsPlayer() {
			return false
		}
		e.castReverse(player)

	case skills.SeeYou:
		e.pay(player, skill)
		e.emitCast(player, skill)
		e.finishBySkill(player, skills.SeeYou)
		return true

	case skills.MightyPower:
		e.openCounterWindow(player, skill)
		return true

	default:
		return false
	}

	e.pay(player, skill)
	e.emitCast(player, skill)
	return true
}

func (e *Engine) pay(player board.Cell, skill skills.Skill) {
	e.mana.Consume(player, skill.ManaCost)
	evt := events.NewEventWithAmount(events.EventManaSpent, player, skill.ManaCost)
	evt.Data = string(skill.ID)
	e.emit(evt)
}

func (e *Engine) emitCast(player board.Cell, skill skills.Skill) {
	evt := events.NewEvent(events.EventSkillCast, player)
	evt.Data = string(skill.ID)
	e.emit(evt)
	e.logger.Info("skill cast",
		zap.String("player", player.String()),
		zap.String("skill", string(skill.ID)),
		zap.Int("cost", skill.ManaCost),
	)
}

func (e *Engine) armSelection(player board.Cell, skill skills.Skill) bool {
	e.selection = skills.Selection{
		IsSelecting: true,
		SkillType:   skill.ID,
		Player:      player,
	}
	evt := events.NewEvent(events.EventSkillSelectionArmed, player)
	evt.Data = string(skill.ID)
	e.emit(evt)
	return true
}

// castHonesty returns the stone the opponent last removed with Flying Sand.
func (e *Engine) castHonesty(player board.Cell) bool {
	piece := e.lastRemoved
	if piece == nil || piece.RemovedBy == player {
		return false
	}
	slot, ok := skills.RetrievalSlot(&e.board, piece.Position)
	if !ok {
		return false
	}
	e.commitStone(slot, piece.Color, e.current)
	e.lastRemoved = nil
	e.updateForbidden()
	return true
}

// castWaterDrop erases the latest stone of the opponent held by Still Water.
func (e *Engine) castWaterDrop(player board.Cell) bool {
	target := e.skipNext
	if !target.IsPlayer() || target == player {
		return false
	}
	entry, _, ok := lo.FindLastIndexOf(e.history, func(h historyEntry) bool {
		return e.board.At(h.pos) == target
	})
	if !ok {
		return false
	}
	e.board.Remove(entry.pos)
	e.removeFromHistory(entry.pos)
	e.updateForbidden()
	return true
}

func (e *Engine) castReverse(player board.Cell) {
	e.reverse = skills.ReverseEffect{
		TargetPlayer:    board.Opponent(player),
		CasterPlayer:    player,
		CasterLocked:    true,
		ShowProgressBar: true,
	}
	tok := e.sched.Schedule("reverse-unlock", e.opts.ReverseLockDelay, func(epoch uint64) {
		e.apply(func() bool { return e.unlockReverse(epoch, player) })
	})
	e.reverseTimer = &tok
}

// unlockReverse lifts the caster's lock and grants the consecutive moves.
// It is a no-op once the game or the effect has moved on.
func (e *Engine) unlockReverse(epoch uint64, caster board.Cell) bool {
	if epoch != e.epoch || !e.reverse.Locks(caster) {
		return false
	}
	e.reverse.CasterLocked = false
	e.reverseTimer = nil
	e.counters.Set(counters.ReverseMoves, caster, counters.ReverseMoveGrants)
	e.emit(events.NewEventWithAmount(events.EventReverseUnlocked, caster, counters.ReverseMoveGrants))
	e.logger.Info("reverse lock lifted", zap.String("player", caster.String()))
	return true
}

func (e *Engine) openCounterWindow(player board.Cell, skill skills.Skill) {
	target := board.Opponent(player)
	e.selection = skills.Selection{
		SkillType:     skill.ID,
		Player:        player,
		CanCounter:    true,
		CounterTarget: target,
	}
	tok := e.sched.Schedule("counter-window", e.opts.CounterWindow, func(epoch uint64) {
		e.apply(func() bool { return e.expireCounterWindow(epoch) })
	})
	e.counterTimer = &tok

	e.emitCast(player, skill)
	e.emit(events.NewEvent(events.EventCounterWindowOpened, target))
}

func (e *Engine) expireCounterWindow(epoch uint64) bool {
	if epoch != e.epoch || e.selection.SkillType != skills.MightyPower || !e.selection.CanCounter {
		return false
	}
	e.counterTimer = nil
	e.resolveMightyPower()
	return true
}

// resolveMightyPower clears the board and hands the caster the win.
func (e *Engine) resolveMightyPower() {
	caster := e.selection.Player
	skill, _ := skills.Lookup(skills.MightyPower)
	e.cancelCounterTimer()

	e.board.Clear()
	e.history = nil
	e.pay(caster, skill)
	e.selection = skills.Selection{}
	e.emit(events.NewEvent(events.EventCounterWindowClosed, caster))
	e.finishBySkill(caster, skills.MightyPower)
}

// castComeback answers an open Mighty Power window. Both sides pay, every
// stone is scattered at random and the history is rebuilt in row-major order.
func (e *Engine) castComeback(player board.Cell, skill skills.Skill) bool {
	sel := e.selection
	if sel.SkillType != skills.MightyPower || !sel.CounterWindowOpen() || sel.CounterTarget != player {
		return false
	}
	attacker := sel.Player
	if !e.mana.ConsumeBoth(player, skill.ManaCost, attacker, skills.Cost(skills.MightyPower)) {
		return false
	}
	e.cancelCounterTimer()

	layout := skills.Scatter(&e.board, e.opts.Shuffler)
	e.history = lo.Map(layout, func(p board.Position, _ int) historyEntry {
		return historyEntry{pos: p, color: e.board.At(p), toMove: e.current}
	})
	e.selection = skills.Selection{}
	e.updateForbidden()

	spent := events.NewEventWithAmount(events.EventManaSpent, player, skill.ManaCost)
	spent.Data = string(skill.ID)
	e.emit(spent)
	spent = events.NewEventWithAmount(events.EventManaSpent, attacker, skills.Cost(skills.MightyPower))
	spent.Data = string(skills.MightyPower)
	e.emit(spent)
	e.emitCast(player, skill)
	e.emit(events.NewEvent(events.EventCounterWindowClosed, player))
	return true
}

func (e *Engine) cancelCounterTimer() {
	if e.counterTimer != nil {
		e.sched.Cancel(*e.counterTimer)
		e.counterTimer = nil
	}
}

// ExecuteSkillEffect resolves a pending targeted skill on (row, col).
// Flying Sand needs an occupied cell; Cleaner uses only the row.
func (e *Engine) ExecuteSkillEffect(row, col int) bool {
	return e.apply(func() bool {
		return e.executeSkillEffect(board.Pos(row, col))
	})
}

func (e *Engine) executeSkillEffect(p board.Position) bool {
	sel := e.selection
	if !sel.IsSelecting || e.gameOver {
		return false
	}
	skill, ok := skills.Lookup(sel.SkillType)
	if !ok || !e.mana.Pool(sel.Player).CanSpend(skill.ManaCost) {
		return false
	}
	requirement, ok := targeting.RequirementFor(sel.SkillType)
	if !ok {
		return false
	}
	if err := targeting.ValidateTarget(&e.board, p, requirement); err != nil {
		e.logger.Debug("skill target refused",
			zap.String("skill", string(sel.SkillType)),
			zap.Error(err),
		)
		return false
	}

	switch sel.SkillType {
	case skills.FlySand:
		color := e.board.At(p)
		e.lastRemoved = &skills.RemovedPiece{Position: p, Color: color, RemovedBy: sel.Player}
		e.board.Remove(p)
		e.removeFromHistory(p)

	case skills.Cleaner:
		removed := skills.ClearRows(&e.board, p.Row)
		e.history = lo.Filter(e.history, func(h historyEntry, _ int) bool {
			return !lo.Contains(removed, h.pos)
		})

	default:
		return false
	}

	e.selection = skills.Selection{}
	e.pay(sel.Player, skill)
	e.emitCast(sel.Player, skill)
	e.updateForbidden()
	return true
}

// CancelSkillSelection drops a pending targeted skill. Nothing is spent.
func (e *Engine) CancelSkillSelection() {
	e.apply(func() bool {
		if !e.selection.IsSelecting {
			return false
		}
		player := e.selection.Player
		evt := events.NewEvent(events.EventSkillSelectionCancel, player)
		evt.Data = string(e.selection.SkillType)
		e.selection = skills.Selection{}
		e.emit(evt)
		return true
	})
}

// CloseCounterWindow resolves an open Mighty Power window immediately in the
// caster's favour.
func (e *Engine) CloseCounterWindow() {
	e.apply(func() bool {
		if e.gameOver || e.selection.SkillType != skills.MightyPower || !e.selection.CanCounter {
			return false
		}
		e.resolveMightyPower()
		return true
	})
}
