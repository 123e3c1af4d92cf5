package skills

import "github.com/gobangfree/gobang-server-go/internal/game/board"

// Selection is an in-progress two-phase skill: a targeted skill waiting for
// its board click, or an open counter window.
type Selection struct {
	IsSelecting   bool       `json:"isSelecting"`
	SkillType     ID         `json:"skillType,omitempty"`
	Player        board.Cell `json:"player"`
	CanCounter    bool       `json:"canCounter"`
	CounterTarget board.Cell `json:"counterTarget"`
}

// Active reports whether any skill is pending.
func (s Selection) Active() bool {
	return s.IsSelecting || s.SkillType != ""
}

// CounterWindowOpen reports whether a counter window is waiting on CounterTarget.
func (s Selection) CounterWindowOpen() bool {
	return s.CanCounter && s.CounterTarget.IsPlayer()
}

// RemovedPiece records the last stone taken by Flying Sand.
type RemovedPiece struct {
	Position  board.Position `json:"position"`
	Color     board.Cell     `json:"color"`
	RemovedBy board.Cell     `json:"removedBy"`
}

// ReverseEffect tracks a Reverse cast from lock to its last granted move.
type ReverseEffect struct {
	TargetPlayer    board.Cell `json:"targetPlayer"`
	CasterPlayer    board.Cell `json:"casterPlayer"`
	CasterLocked    bool       `json:"casterLocked"`
	CasterCanMove   int        `json:"casterCanMove"`
	ShowProgressBar bool       `json:"showProgressBar"`
}

// Locks reports whether player is currently prevented from moving.
func (r ReverseEffect) Locks(player board.Cell) bool {
	return r.CasterLocked && r.CasterPlayer == player && player.IsPlayer()
}
