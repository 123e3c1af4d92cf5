package mana

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// Policy selects how mana grows as moves are committed.
type Policy int

const (
	// PolicyTotalMoves credits by total history length: on every fourth move
	// cycle Black gains at n%4==3 and White at n%4==0.
	PolicyTotalMoves Policy = iota
	// PolicyPerPlayer credits the mover once every MovesPerMana of their own moves.
	PolicyPerPlayer
)

// MovesPerMana is the number of own moves per mana point under PolicyPerPlayer.
const MovesPerMana = 2

// CheatAmount is credited to both players by Ledger.Cheat.
const CheatAmount = 2

var policyNames = map[Policy]string{
	PolicyTotalMoves: "total_moves",
	PolicyPerPlayer:  "per_player",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("POLICY_%d", int(p))
}

// MarshalText renders the policy by name.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for policy, policyName := range policyNames {
		if policyName == name {
			return policy, nil
		}
	}
	return PolicyTotalMoves, fmt.Errorf("unknown mana policy %q", s)
}

// Ledger tracks both players' pools and applies the growth policy.
type Ledger struct {
	mu     sync.Mutex
	policy Policy
	pools  map[board.Cell]*Pool
}

// NewLedger creates a ledger with empty pools capped at max.
func NewLedger(policy Policy, max int) *Ledger {
	return &Ledger{
		policy: policy,
		pools: map[board.Cell]*Pool{
			board.Black: NewPool(max),
			board.White: NewPool(max),
		},
	}
}

// Policy returns the active growth policy.
func (l *Ledger) Policy() Policy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.policy
}

// SetPolicy switches the growth policy. Balances are kept.
func (l *Ledger) SetPolicy(policy Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy = policy
}

// Pool returns the pool for player, or nil for Empty.
func (l *Ledger) Pool(player board.Cell) *Pool {
	return l.pools[player]
}

// Get returns the state of player's pool. Empty yields a zero State.
func (l *Ledger) Get(player board.Cell) State {
	pool := l.pools[player]
	if pool == nil {
		return State{}
	}
	return pool.State()
}

// Consume debits amount from player if they can afford it.
func (l *Ledger) Consume(player board.Cell, amount int) bool {
	pool := l.pools[player]
	if pool == nil {
		return false
	}
	return pool.Spend(amount)
}

// ConsumeBoth debits amountA from a and amountB from b, or neither.
func (l *Ledger) ConsumeBoth(a board.Cell, amountA int, b board.Cell, amountB int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	poolA, poolB := l.pools[a], l.pools[b]
	if poolA == nil || poolB == nil || a == b {
		return false
	}
	if !poolA.CanSpend(amountA) || !poolB.CanSpend(amountB) {
		return false
	}
	poolA.Spend(amountA)
	poolB.Spend(amountB)
	return true
}

// OnMove applies growth after mover committed a stone, with totalMoves the
// history length including that stone. It returns the credited player, or
// Empty when nobody gained.
func (l *Ledger) OnMove(mover board.Cell, totalMoves int) board.Cell {
	l.mu.Lock()
	defer l.mu.Unlock()

	moverPool := l.pools[mover]
	var own int
	if moverPool != nil {
		own = moverPool.CountMove()
	}

	switch l.policy {
	case PolicyPerPlayer:
		if moverPool != nil && own%MovesPerMana == 0 {
			moverPool.Add(1)
			return mover
		}
	default:
		switch {
		case totalMoves%4 == 3:
			l.pools[board.Black].Add(1)
			return board.Black
		case totalMoves > 0 && totalMoves%4 == 0:
			l.pools[board.White].Add(1)
			return board.White
		}
	}
	return board.Empty
}

// Cheat credits CheatAmount to both players, capped.
func (l *Ledger) Cheat() {
	l.pools[board.Black].Add(CheatAmount)
	l.pools[board.White].Add(CheatAmount)
}

// Reset empties both pools. The policy is kept.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, pool := range l.pools {
		pool.Reset()
	}
}
