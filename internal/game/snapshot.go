package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/samber/lo"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/counters"
	"github.com/gobangfree/gobang-server-go/internal/game/mana"
	"github.com/gobangfree/gobang-server-go/internal/game/rules"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

// FlySandBans holds each player's remaining Flying Sand ban turns.
type FlySandBans struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// GameState is a read-only copy of the engine state. Mutating it has no
// effect on the engine.
type GameState struct {
	GameID string `json:"gameId"`
	Epoch  uint64 `json:"epoch"`

	Board         board.Board      `json:"board"`
	CurrentPlayer board.Cell       `json:"currentPlayer"`
	Winner        board.Cell       `json:"winner"`
	IsGameOver    bool             `json:"isGameOver"`
	MoveHistory   []board.Position `json:"moveHistory"`

	Mode              rules.Mode       `json:"mode"`
	ProfessionalPhase rules.Phase      `json:"professionalPhase"`
	HasSwapped        bool             `json:"hasSwapped"`
	FiveOffers        []board.Position `json:"fiveOffers"`
	ForbiddenMoves    []board.Position `json:"forbiddenMoves"`

	BlackMana  mana.State  `json:"blackMana"`
	WhiteMana  mana.State  `json:"whiteMana"`
	ManaPolicy mana.Policy `json:"manaPolicy"`

	SkillState          skills.Selection     `json:"skillState"`
	CounterWindowOpen   bool                 `json:"counterWindowOpen"`
	CounterWindowPlayer board.Cell           `json:"counterWindowPlayer"`
	SkipNextTurn        board.Cell           `json:"skipNextTurn"`
	FlySandBanned       FlySandBans          `json:"flySandBanned"`
	DiversionTurnsLeft  int                  `json:"diversionTurnsLeft"`
	DiversionPlayer     board.Cell           `json:"diversionPlayer"`
	ReverseEffect       skills.ReverseEffect `json:"reverseEffect"`
	LastRemovedPiece    *skills.RemovedPiece `json:"lastRemovedPiece,omitempty"`
	Counters            []counters.Counter   `json:"counters"`

	ExtraTurnEnabled bool       `json:"extraTurnEnabled"`
	IsExtraTurn      bool       `json:"isExtraTurn"`
	PotentialWinner  board.Cell `json:"potentialWinner"`
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	diversionPlayer, _ := e.counters.Owner(counters.Diversion)
	reverse := e.reverse
	if reverse.CasterPlayer.IsPlayer() {
		reverse.CasterCanMove = e.counters.Get(counters.ReverseMoves, reverse.CasterPlayer)
	}
	var lastRemoved *skills.RemovedPiece
	if e.lastRemoved != nil {
		piece := *e.lastRemoved
		lastRemoved = &piece
	}
	window := e.selection.CounterWindowOpen()
	windowPlayer := board.Empty
	if window {
		windowPlayer = e.selection.CounterTarget
	}

	return GameState{
		GameID:              e.gameID.String(),
		Epoch:               e.epoch,
		Board:               e.board,
		CurrentPlayer:       e.current,
		Winner:              e.winner,
		IsGameOver:          e.gameOver,
		MoveHistory:         lo.Map(e.history, func(h historyEntry, _ int) board.Position { return h.pos }),
		Mode:                e.mode,
		ProfessionalPhase:   e.opening.Phase(),
		HasSwapped:          e.opening.HasSwapped(),
		FiveOffers:          e.opening.Offers(),
		ForbiddenMoves:      append([]board.Position(nil), e.forbidden...),
		BlackMana:           e.mana.Get(board.Black),
		WhiteMana:           e.mana.Get(board.White),
		ManaPolicy:          e.mana.Policy(),
		SkillState:          e.selection,
		CounterWindowOpen:   window,
		CounterWindowPlayer: windowPlayer,
		SkipNextTurn:        e.skipNext,
		FlySandBanned: FlySandBans{
			Black: e.counters.Get(counters.FlySandBan, board.Black),
			White: e.counters.Get(counters.FlySandBan, board.White),
		},
		DiversionTurnsLeft: e.counters.Get(counters.Diversion, diversionPlayer),
		DiversionPlayer:    diversionPlayer,
		ReverseEffect:      reverse,
		LastRemovedPiece:   lastRemoved,
		Counters:           e.counters.All(),
		ExtraTurnEnabled:   e.extraTurnEnabled,
		IsExtraTurn:        e.extraTurn,
		PotentialWinner:    e.potentialWinner,
	}
}

// Checksum returns a SHA-256 digest of a deterministic rendering of the
// state. The game id is excluded so identical positions from different
// sessions compare equal.
func (s GameState) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

func (s GameState) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%t|%s|%s|%t|%d\n",
		s.Mode,
		s.ProfessionalPhase,
		s.HasSwapped,
		s.CurrentPlayer,
		s.Winner,
		s.IsGameOver,
		s.Epoch,
	)

	buf.WriteString("BOARD:\n")
	buf.WriteString(s.Board.String())

	writePositions(&buf, "HISTORY", s.MoveHistory)
	writePositions(&buf, "OFFERS", s.FiveOffers)
	writePositions(&buf, "FORBIDDEN", s.ForbiddenMoves)

	fmt.Fprintf(&buf, "MANA:%s|%d/%d/%d|%d/%d/%d\n",
		s.ManaPolicy,
		s.BlackMana.Current, s.BlackMana.Max, s.BlackMana.MoveCounter,
		s.WhiteMana.Current, s.WhiteMana.Max, s.WhiteMana.MoveCounter,
	)

	sk := s.SkillState
	fmt.Fprintf(&buf, "SKILL:%t|%s|%s|%t|%s\n",
		sk.IsSelecting, sk.SkillType, sk.Player, sk.CanCounter, sk.CounterTarget)

	fmt.Fprintf(&buf, "EFFECTS:%s|%d|%d|%d|%s\n",
		s.SkipNextTurn,
		s.FlySandBanned.Black,
		s.FlySandBanned.White,
		s.DiversionTurnsLeft,
		s.DiversionPlayer,
	)

	r := s.ReverseEffect
	fmt.Fprintf(&buf, "REVERSE:%s|%s|%t|%d|%t\n",
		r.TargetPlayer, r.CasterPlayer, r.CasterLocked, r.CasterCanMove, r.ShowProgressBar)

	buf.WriteString("COUNTERS:")
	for i, c := range s.Counters {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%s/%s/%d", c.Type, c.Owner, c.Count)
	}
	buf.WriteByte('\n')

	if p := s.LastRemovedPiece; p != nil {
		fmt.Fprintf(&buf, "REMOVED:%s|%s|%s\n", p.Position, p.Color, p.RemovedBy)
	}

	fmt.Fprintf(&buf, "EXTRA:%t|%t|%s\n", s.ExtraTurnEnabled, s.IsExtraTurn, s.PotentialWinner)
	return buf.String()
}

func writePositions(buf *bytes.Buffer, label string, positions []board.Position) {
	buf.WriteString(label)
	buf.WriteByte(':')
	for i, p := range positions {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.String())
	}
	buf.WriteByte('\n')
}
