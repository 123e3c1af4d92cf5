package game

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/mana"
	"github.com/gobangfree/gobang-server-go/internal/game/rules"
	"github.com/gobangfree/gobang-server-go/internal/game/schedule"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

// Default timer durations.
const (
	DefaultReverseLockDelay = 3 * time.Second
	DefaultCounterWindow    = 5 * time.Second
)

// Options configures an Engine.
type Options struct {
	Mode                 rules.Mode
	ManaPolicy           mana.Policy
	MaxMana              int
	ExtraTurnArbitration bool
	ReverseLockDelay     time.Duration
	CounterWindow        time.Duration

	// Clock drives the skill timers. Nil uses the wall clock.
	Clock clock.Clock
	// Shuffler randomizes Comeback. Nil uses skills.DefaultShuffler.
	Shuffler skills.Shuffler
}

// DefaultOptions returns a basic-mode configuration.
func DefaultOptions() Options {
	return Options{
		Mode:             rules.ModeBasic,
		ManaPolicy:       mana.PolicyTotalMoves,
		MaxMana:          mana.DefaultMax,
		ReverseLockDelay: DefaultReverseLockDelay,
		CounterWindow:    DefaultCounterWindow,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxMana <= 0 {
		o.MaxMana = mana.DefaultMax
	}
	if o.ReverseLockDelay <= 0 {
		o.ReverseLockDelay = DefaultReverseLockDelay
	}
	if o.CounterWindow <= 0 {
		o.CounterWindow = DefaultCounterWindow
	}
	if o.Shuffler == nil {
		o.Shuffler = skills.DefaultShuffler
	}
	return o
}

// historyEntry is one stone in play order. toMove is the player to move
// before the stone was committed, restored by Undo.
type historyEntry struct {
	pos    board.Position
	color  board.Cell
	toMove board.Cell
}

// Engine owns one game session. All exported methods are safe for
// concurrent use; timer callbacks serialize on the same lock. Events raised
// by an operation are published after the lock is released.
type Engine struct {
	mu     sync.Mutex
	logger *zap.Logger
	opts   Options
	bus    *events.Bus
	queue  events.Queue
	sched  *schedule.Scheduler

	gameID uuid.UUID
	epoch  uint64

	mode     rules.Mode
	board    board.Board
	history  []historyEntry
	current  board.Cell
	winner   board.Cell
	gameOver bool

	// endedBySkill marks a game decided by See You or Mighty Power.
	endedBySkill bool

	opening   *rules.Opening
	forbidden []board.Position

	mana     *mana.Ledger
	counters *counters.Counters

	selection   skills.Selection
	skipNext    board.Cell
	lastRemoved *skills.RemovedPiece
	reverse     skills.ReverseEffect

	extraTurnEnabled bool
	extraTurn        bool
	potentialWinner  board.Cell

	counterTimer *schedule.Token
	reverseTimer *schedule.Token
}

// NewEngine creates an engine and starts the first game.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	e := &Engine{
		logger:           logger,
		opts:             opts,
		bus:              events.NewBus(),
		sched:            schedule.New(opts.Clock, logger.Named("schedule")),
		mode:             opts.Mode,
		opening:          rules.NewOpening(),
		mana:             mana.NewLedger(opts.ManaPolicy, opts.MaxMana),
		counters:         counters.NewCounters(),
		extraTurnEnabled: opts.ExtraTurnArbitration,
	}
	e.restartLocked()
	e.queue.Drain()

	logger.Info("engine created",
		zap.String("mode", e.mode.String()),
		zap.String("mana_policy", opts.ManaPolicy.String()),
		zap.Bool("extra_turn_arbitration", opts.ExtraTurnArbitration),
	)
	return e
}

// Subscribe registers a listener for every event.
func (e *Engine) Subscribe(listener events.Listener) int {
	return e.bus.Subscribe(listener)
}

// SubscribeTyped registers a listener for one event type.
func (e *Engine) SubscribeTyped(eventType events.EventType, listener events.Listener) int {
	return e.bus.SubscribeTyped(eventType, listener)
}

// Unsubscribe removes a listener.
func (e *Engine) Unsubscribe(handle int) {
	e.bus.Unsubscribe(handle)
}

// Close stops all pending timers.
func (e *Engine) Close() {
	e.mu.Lock()
	e.epoch = e.sched.Advance()
	e.mu.Unlock()
}

// apply runs fn under the engine lock and publishes the events it raised.
func (e *Engine) apply(fn func() bool) bool {
	e.mu.Lock()
	ok := fn()
	pending := e.queue.Drain()
	e.mu.Unlock()

	e.bus.PublishBatch(pending)
	return ok
}

func (e *Engine) emit(evt events.Event) {
	evt.GameID = e.gameID.String()
	evt.Epoch = e.epoch
	evt.Timestamp = e.sched.Clock().Now()
	e.queue.Push(evt)
}

// Restart discards the current game and starts a new one in the same mode.
func (e *Engine) Restart() {
	e.apply(func() bool {
		e.restartLocked()
		return true
	})
}

// SetMode restarts the game under mode.
func (e *Engine) SetMode(mode rules.Mode) {
	e.apply(func() bool {
		previous := e.mode
		e.mode = mode
		e.restartLocked()

		evt := events.NewEvent(events.EventModeChanged, board.Empty)
		evt.Data = mode.String()
		e.emit(evt)
		e.logger.Info("mode changed",
			zap.String("from", previous.String()),
			zap.String("to", mode.String()),
		)
		return true
	})
}

func (e *Engine) restartLocked() {
	e.epoch = e.sched.Advance()
	e.gameID = uuid.New()

	e.board.Clear()
	e.history = nil
	e.current = board.Black
	e.winner = board.Empty
	e.gameOver = false
	e.endedBySkill = false

	e.opening.Reset()
	e.forbidden = nil
	e.mana.Reset()
	e.counters.Reset()

	e.selection = skills.Selection{}
	e.skipNext = board.Empty
	e.lastRemoved = nil
	e.reverse = skills.ReverseEffect{}

	e.extraTurn = false
	e.potentialWinner = board.Empty
	e.counterTimer = nil
	e.reverseTimer = nil

	if e.mode == rules.ModeProfessional {
		e.board.Set(board.Center, board.Black)
		e.history = append(e.history, historyEntry{pos: board.Center, color: board.Black, toMove: board.Black})
		e.current = board.White
	}
	e.updateForbidden()

	evt := events.NewEvent(events.EventGameStarted, e.current)
	evt.Data = e.mode.String()
	e.emit(evt)
	e.logger.Debug("game started",
		zap.String("game_id", e.gameID.String()),
		zap.Uint64("epoch", e.epoch),
		zap.String("mode", e.mode.String()),
	)
}

// Undo takes back the last stone in basic mode, restoring the player to move
// before it and reopening a game that stone finished. It is refused while a
// skill is pending and after a game decided by a skill.
func (e *Engine) Undo() {
	e.apply(func() bool {
		if e.mode != rules.ModeBasic || len(e.history) == 0 || e.selection.Active() {
			return false
		}
		if e.gameOver && e.endedBySkill {
			return false
		}
		last := e.history[len(e.history)-1]
		e.history = e.history[:len(e.history)-1]
		e.board.Remove(last.pos)

		e.gameOver = false
		e.winner = board.Empty
		e.extraTurn = false
		e.potentialWinner = board.Empty
		e.current = last.toMove
		e.updateForbidden()

		e.emit(events.NewEventAt(events.EventMoveUndone, last.color, last.pos))
		e.logger.Debug("move undone",
			zap.Int("row", last.pos.Row),
			zap.Int("col", last.pos.Col),
			zap.String("to_move", e.current.String()),
		)
		return true
	})
}

// SwapPlayers accepts the third-move swap: every stone changes colour and
// Black moves next.
func (e *Engine) SwapPlayers() {
	e.apply(func() bool {
		if e.mode != rules.ModeProfessional || e.gameOver || !e.opening.Swap() {
			return false
		}
		for i := range e.history {
			entry := &e.history[i]
			entry.color = board.Opponent(entry.color)
			e.board.Set(entry.pos, entry.color)
		}
		e.setCurrent(board.Black)
		e.updateForbidden()

		e.emit(events.NewEvent(events.EventColorsSwapped, board.White))
		e.emitPhase()
		e.logger.Info("colours swapped", zap.String("game_id", e.gameID.String()))
		return true
	})
}

// DeclineSwap refuses the third-move swap. The board is unchanged and White
// keeps the move.
func (e *Engine) DeclineSwap() {
	e.apply(func() bool {
		if e.mode != rules.ModeProfessional || e.gameOver || !e.opening.Decline() {
			return false
		}
		e.setCurrent(board.White)
		e.updateForbidden()

		e.emit(events.NewEvent(events.EventSwapDeclined, board.White))
		e.emitPhase()
		e.logger.Info("swap declined", zap.String("game_id", e.gameID.String()))
		return true
	})
}

// ChooseFiveOffer places the proposer's stone on the offer at index. The
// chooser moves next. Invalid indexes are ignored.
func (e *Engine) ChooseFiveOffer(index int) {
	e.apply(func() bool {
		if e.mode != rules.ModeProfessional || e.gameOver || e.opening.Phase() != rules.PhaseFiveChoose {
			return false
		}
		offers := e.opening.Offers()
		if index < 0 || index >= len(offers) || !e.board.IsEmpty(offers[index]) {
			return false
		}
		proposer, chooser := e.opening.Proposer(), e.opening.Chooser()
		chosen, _ := e.opening.Choose(index)

		e.commitStone(chosen, proposer, e.current)
		evt := events.NewEventAt(events.EventFiveChosen, chooser, chosen)
		evt.Amount = index
		e.emit(evt)

		if board.CheckWin(&e.board, chosen) {
			e.finish(proposer, "five")
			return true
		}
		e.setCurrent(chooser)
		e.updateForbidden()
		e.emitPhase()
		return true
	})
}

// AddManaCheat credits both players with mana.CheatAmount.
func (e *Engine) AddManaCheat() {
	e.apply(func() bool {
		e.mana.Cheat()
		for _, player := range []board.Cell{board.Black, board.White} {
			e.emit(events.NewEventWithAmount(events.EventManaGained, player, mana.CheatAmount))
		}
		e.logger.Debug("mana cheat applied")
		return true
	})
}

// SetManaPolicy switches how mana grows. Balances are kept.
func (e *Engine) SetManaPolicy(policy mana.Policy) {
	e.apply(func() bool {
		e.mana.SetPolicy(policy)
		e.logger.Info("mana policy changed", zap.String("policy", policy.String()))
		return true
	})
}

// SetExtraTurnArbitration enables or disables the counter-win extra turn.
// Disabling closes any open extra turn; a pending five still on the board
// then wins.
func (e *Engine) SetExtraTurnArbitration(enabled bool) {
	e.apply(func() bool {
		e.extraTurnEnabled = enabled
		if !enabled && e.extraTurn {
			pending := e.potentialWinner
			e.extraTurn = false
			e.potentialWinner = board.Empty
			if !e.gameOver && board.WinStillValid(&e.board, pending) {
				e.finish(pending, "five")
			}
		}
		e.logger.Info("extra turn arbitration changed", zap.Bool("enabled", enabled))
		return true
	})
}

// IsForbiddenMove reports whether Black may not play (row, col). Always
// false in basic mode.
func (e *Engine) IsForbiddenMove(row, col int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != rules.ModeProfessional {
		return false
	}
	return rules.IsForbidden(&e.board, board.Pos(row, col))
}

// commitStone places color at p and records it.
func (e *Engine) commitStone(p board.Position, color, toMove board.Cell) {
	e.board.Set(p, color)
	e.history = append(e.history, historyEntry{pos: p, color: color, toMove: toMove})
	e.emit(events.NewEventAt(events.EventStonePlaced, color, p))
}

// removeFromHistory drops the entry for p, if any.
func (e *Engine) removeFromHistory(p board.Position) {
	for i, entry := range e.history {
		if entry.pos == p {
			e.history = append(e.history[:i], e.history[i+1:]...)
			return
		}
	}
}

func (e *Engine) setCurrent(player board.Cell) {
	if e.current == player {
		return
	}
	e.current = player
	e.emit(events.NewEvent(events.EventTurnChanged, player))
}

func (e *Engine) finish(winner board.Cell, reason string) {
	e.gameOver = true
	e.endedBySkill = false
	e.winner = winner
	e.extraTurn = false
	e.potentialWinner = board.Empty
	e.forbidden = nil

	evt := events.NewEvent(events.EventGameOver, winner)
	evt.Data = reason
	e.emit(evt)
	e.logger.Info("game over",
		zap.String("game_id", e.gameID.String()),
		zap.String("winner", winner.String()),
		zap.String("reason", reason),
		zap.Int("moves", len(e.history)),
	)
}

// finishBySkill ends the game on a skill's effect rather than a stone.
func (e *Engine) finishBySkill(winner board.Cell, id skills.ID) {
	e.finish(winner, string(id))
	e.endedBySkill = true
}

func (e *Engine) emitPhase() {
	evt := events.NewEvent(events.EventPhaseChanged, e.current)
	evt.Data = e.opening.Phase().String()
	e.emit(evt)
}

// updateForbidden recomputes Black's forbidden cells. The set is only kept
// in professional mode while Black is to move.
func (e *Engine) updateForbidden() {
	if e.mode != rules.ModeProfessional || e.current != board.Black || e.gameOver {
		e.forbidden = nil
		return
	}
	e.forbidden = rules.ForbiddenMoves(&e.board)
}
